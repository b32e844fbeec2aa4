package sections

// Tree is a segmented document: sections in document order.
type Tree struct {
	Sections []Section `json:"sections"`
}

// Section groups the lines that follow one header line. Lines holds the raw
// non-blank content lines; Subsections is their title/content split.
type Section struct {
	Header      string       `json:"header"`
	Lines       []string     `json:"-"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection is a short title line and the long lines that follow it.
type Subsection struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// IsEmpty reports whether the subsection has no non-blank content line.
func (s Subsection) IsEmpty() bool {
	return !hasContent(s.Lines)
}

// Visitor is called by Walk. VisitSection returns false to skip the
// section's subsections.
type Visitor interface {
	VisitSection(section *Section) bool
	VisitSubsection(section *Section, subsection *Subsection)
}

// Walk visits every section and subsection of the tree in document order.
func Walk(tree *Tree, v Visitor) {
	if tree == nil {
		return
	}
	for i := range tree.Sections {
		section := &tree.Sections[i]
		if !v.VisitSection(section) {
			continue
		}
		for j := range section.Subsections {
			v.VisitSubsection(section, &section.Subsections[j])
		}
	}
}
