// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// run reports.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/oboxref/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeReport converts a Report into TOON format.
func EncodeReport(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("file: %s", encodeValue(r.File)))
	parts = append(parts, fmt.Sprintf("mappings: %d", r.Mappings))
	parts = append(parts, fmt.Sprintf("excluded: %d", r.Excluded))

	var inserted, duplicates, missing [][]string
	for i := range r.Edits {
		e := &r.Edits[i]
		switch e.Outcome {
		case model.Inserted:
			inserted = append(inserted, []string{e.Node, e.Xref, fmt.Sprintf("%d", e.Line+1)})
		case model.Duplicate:
			duplicates = append(duplicates, []string{e.Node, e.Xref})
		case model.NodeNotFound:
			missing = append(missing, []string{e.Node, e.Xref})
		}
	}
	parts = append(parts, formatTabular("inserted", []string{"node", "xref", "line"}, inserted))
	parts = append(parts, formatTabular("duplicates", []string{"node", "xref"}, duplicates))
	parts = append(parts, formatTabular("missing", []string{"node", "xref"}, missing))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
