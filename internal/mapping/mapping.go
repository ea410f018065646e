// Package mapping loads externally curated mappings, such as the Biomappings
// positive mappings table, and selects the ones that apply to an ontology.
package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phobologic/oboxref/internal/curie"
	"github.com/phobologic/oboxref/internal/model"
)

// Column names in the mapping table header.
const (
	ColSourcePrefix = "source prefix"
	ColSourceID     = "source identifier"
	ColSourceName   = "source name"
	ColRelation     = "relation"
	ColTargetPrefix = "target prefix"
	ColTargetID     = "target identifier"
	ColTargetName   = "target name"
)

var requiredColumns = []string{ColSourcePrefix, ColSourceID, ColTargetPrefix, ColTargetID}

// MissingColumnError is returned when the header lacks a required column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("mapping table has no %q column", e.Column)
}

// Load reads a tab-separated mapping table with a header row. Lines starting
// with '#' are treated as metadata and skipped.
func Load(r io.Reader) ([]model.Mapping, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, &MissingColumnError{Column: c}
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var mappings []model.Mapping
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading mappings: %w", err)
		}
		row, _ := cr.FieldPos(0)
		for _, c := range requiredColumns {
			if field(rec, c) == "" {
				return nil, fmt.Errorf("line %d: empty %q", row, c)
			}
		}
		mappings = append(mappings, model.Mapping{
			SourcePrefix: field(rec, ColSourcePrefix),
			SourceID:     field(rec, ColSourceID),
			SourceName:   field(rec, ColSourceName),
			Relation:     field(rec, ColRelation),
			TargetPrefix: field(rec, ColTargetPrefix),
			TargetID:     field(rec, ColTargetID),
			TargetName:   field(rec, ColTargetName),
		})
	}
	return mappings, nil
}

// LoadFile reads the mapping table at path.
func LoadFile(path string) ([]model.Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading mappings: %w", err)
	}
	defer f.Close()

	mappings, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mappings, nil
}

// FilterSource returns the mappings whose source namespace is prefix.
// Namespaces are compared after normalization, so "MONDO" matches "mondo".
func FilterSource(mappings []model.Mapping, prefix string) []model.Mapping {
	prefix = curie.Normalize(prefix)
	var kept []model.Mapping
	for _, m := range mappings {
		if curie.Normalize(m.SourcePrefix) == prefix {
			kept = append(kept, m)
		}
	}
	return kept
}
