package report

import "strings"

// Merge combines a forward (old vs new) and a reversed (new vs old) report.
//
// The result is a copy of forward whose AddedDeclarations are the reversed
// report's RemovedDeclarations, reworded from "removed" to "added". The
// other categories of reversed describe the same changes as forward seen
// from the other side and are dropped. Neither input is modified.
func Merge(forward, reversed *Report) *Report {
	out := forward.Clone()

	removed := reversed.Entries(RemovedDeclarations)
	added := make([]string, len(removed))
	for i, line := range removed {
		added[i] = rewordRemoval(line)
	}
	out.entries[AddedDeclarations] = added

	return out
}

// rewordRemoval replaces the last "removed" in line. The digester ends
// removal lines with "has been removed", so the last occurrence is the
// verb even when a declaration name also contains the word.
func rewordRemoval(line string) string {
	i := strings.LastIndex(line, "removed")
	if i < 0 {
		return line
	}
	return line[:i] + "added" + line[i+len("removed"):]
}
