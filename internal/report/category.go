package report

// Category identifies one section of a digester report.
type Category int

// Categories in render order.
const (
	GenericSignatureChanges Category = iota
	RawRepresentableChanges
	RemovedDeclarations
	AddedDeclarations
	MovedDeclarations
	RenamedDeclarations
	TypeChanges
	DeclAttributeChanges
	FixedLayoutTypeChanges
	ProtocolConformanceChanges
	ProtocolRequirementChanges
	ClassInheritanceChanges
	OtherChanges

	categoryCount
)

var categoryNames = [categoryCount]string{
	GenericSignatureChanges:    "genericSignatureChanges",
	RawRepresentableChanges:    "rawRepresentableChanges",
	RemovedDeclarations:        "removedDeclarations",
	AddedDeclarations:          "addedDeclarations",
	MovedDeclarations:          "movedDeclarations",
	RenamedDeclarations:        "renamedDeclarations",
	TypeChanges:                "typeChanges",
	DeclAttributeChanges:       "declAttributeChanges",
	FixedLayoutTypeChanges:     "fixedLayoutTypeChanges",
	ProtocolConformanceChanges: "protocolConformanceChanges",
	ProtocolRequirementChanges: "protocolRequirementChanges",
	ClassInheritanceChanges:    "classInheritanceChanges",
	OtherChanges:               "otherChanges",
}

// categoryMarkers holds the section headers as the digester prints them.
// AddedDeclarations has no digester header; its marker is used for rendering only.
var categoryMarkers = [categoryCount]string{
	GenericSignatureChanges:    "/* Generic Signature Changes */",
	RawRepresentableChanges:    "/* RawRepresentable Changes */",
	RemovedDeclarations:        "/* Removed Decls */",
	AddedDeclarations:          "/* Added Decls */",
	MovedDeclarations:          "/* Moved Decls */",
	RenamedDeclarations:        "/* Renamed Decls */",
	TypeChanges:                "/* Type Changes */",
	DeclAttributeChanges:       "/* Decl Attribute changes */",
	FixedLayoutTypeChanges:     "/* Fixed-layout Type Changes */",
	ProtocolConformanceChanges: "/* Protocol Conformance Change */",
	ProtocolRequirementChanges: "/* Protocol Requirement Change */",
	ClassInheritanceChanges:    "/* Class Inheritance Change */",
	OtherChanges:               "/* Others */",
}

// parseableMarkers maps digester headers to their category.
var parseableMarkers = func() map[string]Category {
	m := make(map[string]Category, categoryCount)
	for _, c := range Categories() {
		if c == AddedDeclarations {
			continue
		}
		m[categoryMarkers[c]] = c
	}
	return m
}()

// Categories returns every category in render order.
func Categories() []Category {
	out := make([]Category, categoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c >= 0 && c < categoryCount
}

// String returns the category's field name, e.g. "removedDeclarations".
func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return categoryNames[c]
}

// Marker returns the header line used when rendering the category.
func (c Category) Marker() string {
	if !c.Valid() {
		return ""
	}
	return categoryMarkers[c]
}

// CategoryForMarker returns the category a digester header line opens.
func CategoryForMarker(line string) (Category, bool) {
	c, ok := parseableMarkers[line]
	return c, ok
}
