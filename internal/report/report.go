// Package report models the categorized API diff produced by the digester:
// parsing raw diagnose output, merging the forward and reversed diffs,
// classifying the result and rendering it.
package report

// Report maps every category to the change lines found for it, in the
// order they appeared in the source text.
type Report struct {
	entries [categoryCount][]string
}

// New returns a report with every category empty.
func New() *Report {
	return &Report{}
}

// Append adds a line to category c.
func (r *Report) Append(c Category, line string) {
	if !c.Valid() {
		return
	}
	r.entries[c] = append(r.entries[c], line)
}

// Entries returns a copy of the lines recorded for c. The result is never nil.
func (r *Report) Entries(c Category) []string {
	if r == nil || !c.Valid() {
		return []string{}
	}
	out := make([]string, len(r.entries[c]))
	copy(out, r.entries[c])
	return out
}

// Len returns the number of lines recorded for c.
func (r *Report) Len(c Category) int {
	if r == nil || !c.Valid() {
		return 0
	}
	return len(r.entries[c])
}

// Total returns the number of lines across all categories.
func (r *Report) Total() int {
	total := 0
	for _, c := range Categories() {
		total += r.Len(c)
	}
	return total
}

// IsEmpty reports whether no category has any lines.
func (r *Report) IsEmpty() bool {
	return r.Total() == 0
}

// Clone returns a deep copy of r.
func (r *Report) Clone() *Report {
	out := New()
	if r == nil {
		return out
	}
	for _, c := range Categories() {
		if len(r.entries[c]) > 0 {
			out.entries[c] = r.Entries(c)
		}
	}
	return out
}
