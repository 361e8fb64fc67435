package report

// Verdict is the two-valued classification of an API change.
type Verdict string

const (
	VerdictBreaking Verdict = "breaking"
	VerdictMinor    Verdict = "minor"
)

// Classify returns VerdictBreaking if any category of r has lines,
// VerdictMinor otherwise. AddedDeclarations counts like every other
// category.
func Classify(r *Report) Verdict {
	for _, c := range Categories() {
		if r.Len(c) > 0 {
			return VerdictBreaking
		}
	}
	return VerdictMinor
}

// SemverAdvice maps a verdict to the version component that should be bumped.
func (v Verdict) SemverAdvice() string {
	if v == VerdictBreaking {
		return "major"
	}
	return "minor"
}
