// Package model defines core data structures for oboxref.
package model

// Mapping is a single externally supplied equivalence between a source
// entity (the ontology term being edited) and a target entity (the xref).
type Mapping struct {
	SourcePrefix string
	SourceID     string
	SourceName   string
	Relation     string
	TargetPrefix string
	TargetID     string
	TargetName   string
}

// Source returns the compact source identifier, "prefix:id".
func (m Mapping) Source() string {
	return m.SourcePrefix + ":" + m.SourceID
}

// Target returns the compact target identifier, "prefix:id".
func (m Mapping) Target() string {
	return m.TargetPrefix + ":" + m.TargetID
}

// Outcome describes what the block editor did for one mapping.
type Outcome string

const (
	Inserted     Outcome = "inserted"
	Duplicate    Outcome = "duplicate"
	NodeNotFound Outcome = "missing"
)

// Edit records the result of applying one mapping to the line sequence.
type Edit struct {
	Node    string // Rendered source CURIE, e.g. MONDO:0000001
	Xref    string // Rendered target CURIE, e.g. DOID:5
	Outcome Outcome
	Line    int // 0-based index of the inserted line; -1 unless Inserted
}

// Report is the summary of a complete run, ready for serialization.
type Report struct {
	File     string
	Mappings int
	Excluded int
	Edits    []Edit
}

// Count returns how many edits ended with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for i := range r.Edits {
		if r.Edits[i].Outcome == o {
			n++
		}
	}
	return n
}
