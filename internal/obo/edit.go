// Package obo reads, edits, and writes OBO ontology files as line sequences.
package obo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phobologic/oboxref/internal/curie"
	"github.com/phobologic/oboxref/internal/model"
)

// XrefSource is the provenance annotation attached to every inserted xref.
const XrefSource = `{source="MONDO:equivalentTo"}`

// MissingAnchorError is returned when a block has neither xref, def, nor
// name lines, so there is nowhere to put a new xref.
type MissingAnchorError struct {
	Node string
}

func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("%s: no def or name line to anchor xref", e.Node)
}

// block holds what the scanner learned about one record block.
// Indexes are -1 when the line was not seen.
type block struct {
	def       int
	name      int
	xrefStart int
	entries   []string // xref values with annotations, in file order
}

// scanBlock finds the block whose header is "id: <node>" and collects its
// def, name and xref positions. It reports false if the header is absent.
func scanBlock(lines []string, node string) (block, bool) {
	header := "id: " + node + "\n"
	b := block{def: -1, name: -1, xrefStart: -1}
	in := false

	for i, line := range lines {
		if line == header {
			in = true
			continue
		}
		if !in {
			continue
		}

		if b.def < 0 && strings.HasPrefix(line, "def") {
			b.def = i
		}
		if b.name < 0 && strings.HasPrefix(line, "name") {
			b.name = i
		}

		if strings.HasPrefix(line, "xref") {
			if b.xrefStart < 0 {
				b.xrefStart = i
			}
			b.entries = append(b.entries, entryText(line))
			continue
		}

		// The xref run has ended.
		if b.xrefStart >= 0 {
			break
		}
		// End of the block without any xrefs.
		if strings.TrimSpace(line) == "" {
			break
		}
	}
	return b, in
}

// entryText returns the text following "xref: ", trimmed.
func entryText(line string) string {
	if len(line) <= len("xref: ") {
		return ""
	}
	return strings.TrimSpace(line[len("xref: "):])
}

// insertAt returns the index at which the first xref of the block lives,
// or where one should go when the block has none.
func (b *block) insertAt(node string) (int, error) {
	switch {
	case b.xrefStart >= 0:
		return b.xrefStart, nil
	case b.def >= 0:
		return b.def + 1, nil
	case b.name >= 0:
		return b.name + 1, nil
	}
	return 0, &MissingAnchorError{Node: node}
}

// FormatXref returns the exact line inserted for xref.
func FormatXref(xref string) string {
	return "xref: " + xref + " " + XrefSource + "\n"
}

// AddXref inserts the xref described by m into the block of its source term,
// keeping the block's xrefs sorted. The input slice is never modified.
//
// When the term is not in lines, or the block already has an xref whose
// first token equals the rendered target, lines is returned as is and the
// Edit outcome says why.
func AddXref(lines []string, m model.Mapping) ([]string, model.Edit, error) {
	node, err := curie.Render(m.SourcePrefix, m.SourceID)
	if err != nil {
		return lines, model.Edit{}, fmt.Errorf("formatting source %s: %w", m.Source(), err)
	}
	xref, err := curie.Render(m.TargetPrefix, m.TargetID)
	if err != nil {
		return lines, model.Edit{}, fmt.Errorf("formatting target %s: %w", m.Target(), err)
	}
	edit := model.Edit{Node: node, Xref: xref, Line: -1}

	b, found := scanBlock(lines, node)
	if !found {
		edit.Outcome = model.NodeNotFound
		return lines, edit, nil
	}

	for _, e := range b.entries {
		if fields := strings.Fields(e); len(fields) > 0 && fields[0] == xref {
			edit.Outcome = model.Duplicate
			return lines, edit, nil
		}
	}

	start, err := b.insertAt(node)
	if err != nil {
		return lines, edit, err
	}

	sorted := make([]string, 0, len(b.entries)+1)
	sorted = append(sorted, b.entries...)
	sorted = append(sorted, xref)
	sort.Strings(sorted)
	pos := sort.SearchStrings(sorted, xref)

	idx := start + pos
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:idx]...)
	out = append(out, FormatXref(xref))
	out = append(out, lines[idx:]...)

	edit.Outcome = model.Inserted
	edit.Line = idx
	return out, edit, nil
}

// Apply folds AddXref over mappings in order. It stops at the first error,
// returning the original lines untouched.
func Apply(lines []string, mappings []model.Mapping) ([]string, []model.Edit, error) {
	cur := lines
	edits := make([]model.Edit, 0, len(mappings))
	for _, m := range mappings {
		next, edit, err := AddXref(cur, m)
		if err != nil {
			return lines, edits, err
		}
		edits = append(edits, edit)
		cur = next
	}
	return cur, edits, nil
}
