package report

import "strings"

// Description renders every non-empty category in order: the category
// marker, then one " - " prefixed line per change.
func (r *Report) Description() string {
	return r.DescriptionWith(nil)
}

// DescriptionWith renders like Description, passing each marker through
// style first. A nil style leaves markers unchanged.
func (r *Report) DescriptionWith(style func(string) string) string {
	var sb strings.Builder
	for _, c := range Categories() {
		if r.Len(c) == 0 {
			continue
		}
		marker := c.Marker()
		if style != nil {
			marker = style(marker)
		}
		sb.WriteString(marker)
		sb.WriteString("\n")
		for _, line := range r.entries[c] {
			sb.WriteString(" - ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Summary counts changes per category.
type Summary struct {
	TotalChanges int            `json:"totalChanges" yaml:"totalChanges" toml:"totalChanges"`
	ByCategory   map[string]int `json:"byCategory" yaml:"byCategory" toml:"byCategory"`
}

// Summarize computes the summary of r. Empty categories are omitted from ByCategory.
func Summarize(r *Report) *Summary {
	s := &Summary{ByCategory: make(map[string]int)}
	for _, c := range Categories() {
		n := r.Len(c)
		if n == 0 {
			continue
		}
		s.TotalChanges += n
		s.ByCategory[c.String()] = n
	}
	return s
}

// Changes is the serializable form of a Report. Every category is always
// present so consumers never have to distinguish missing from empty.
type Changes struct {
	GenericSignatureChanges    []string `json:"genericSignatureChanges" yaml:"genericSignatureChanges" toml:"genericSignatureChanges"`
	RawRepresentableChanges    []string `json:"rawRepresentableChanges" yaml:"rawRepresentableChanges" toml:"rawRepresentableChanges"`
	RemovedDeclarations        []string `json:"removedDeclarations" yaml:"removedDeclarations" toml:"removedDeclarations"`
	AddedDeclarations          []string `json:"addedDeclarations" yaml:"addedDeclarations" toml:"addedDeclarations"`
	MovedDeclarations          []string `json:"movedDeclarations" yaml:"movedDeclarations" toml:"movedDeclarations"`
	RenamedDeclarations        []string `json:"renamedDeclarations" yaml:"renamedDeclarations" toml:"renamedDeclarations"`
	TypeChanges                []string `json:"typeChanges" yaml:"typeChanges" toml:"typeChanges"`
	DeclAttributeChanges       []string `json:"declAttributeChanges" yaml:"declAttributeChanges" toml:"declAttributeChanges"`
	FixedLayoutTypeChanges     []string `json:"fixedLayoutTypeChanges" yaml:"fixedLayoutTypeChanges" toml:"fixedLayoutTypeChanges"`
	ProtocolConformanceChanges []string `json:"protocolConformanceChanges" yaml:"protocolConformanceChanges" toml:"protocolConformanceChanges"`
	ProtocolRequirementChanges []string `json:"protocolRequirementChanges" yaml:"protocolRequirementChanges" toml:"protocolRequirementChanges"`
	ClassInheritanceChanges    []string `json:"classInheritanceChanges" yaml:"classInheritanceChanges" toml:"classInheritanceChanges"`
	OtherChanges               []string `json:"otherChanges" yaml:"otherChanges" toml:"otherChanges"`
}

// Changes converts r to its serializable form.
func (r *Report) Changes() Changes {
	var ch Changes
	for _, c := range Categories() {
		*ch.field(c) = r.Entries(c)
	}
	return ch
}

func (ch *Changes) field(c Category) *[]string {
	switch c {
	case GenericSignatureChanges:
		return &ch.GenericSignatureChanges
	case RawRepresentableChanges:
		return &ch.RawRepresentableChanges
	case RemovedDeclarations:
		return &ch.RemovedDeclarations
	case AddedDeclarations:
		return &ch.AddedDeclarations
	case MovedDeclarations:
		return &ch.MovedDeclarations
	case RenamedDeclarations:
		return &ch.RenamedDeclarations
	case TypeChanges:
		return &ch.TypeChanges
	case DeclAttributeChanges:
		return &ch.DeclAttributeChanges
	case FixedLayoutTypeChanges:
		return &ch.FixedLayoutTypeChanges
	case ProtocolConformanceChanges:
		return &ch.ProtocolConformanceChanges
	case ProtocolRequirementChanges:
		return &ch.ProtocolRequirementChanges
	case ClassInheritanceChanges:
		return &ch.ClassInheritanceChanges
	default:
		return &ch.OtherChanges
	}
}
