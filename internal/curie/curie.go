// Package curie parses compact identifiers and renders them in the prefix
// vocabulary used by the MONDO edit file.
package curie

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a string is not of the form "prefix:id".
var ErrMalformed = errors.New("malformed compact identifier")

// UnrecognizedNamespaceError is returned when a namespace has no entry in
// the prefix table.
type UnrecognizedNamespaceError struct {
	Prefix string
}

func (e *UnrecognizedNamespaceError) Error() string {
	return fmt.Sprintf("unrecognized namespace %q", e.Prefix)
}

// PrefixMap translates normalized namespaces to the prefixes written into
// the ontology file.
var PrefixMap = map[string]string{
	"icd10":   "ICD10WHO",
	"omim.ps": "OMIMPS",
	"omim":    "OMIM",
	"mesh":    "MESH",
	"ncit":    "NCIT",
	"icd11":   "icd11.foundation",
	"doid":    "DOID",
	"mondo":   "MONDO",
}

// CURIE is a parsed compact identifier. Identifier may itself contain
// colons; only the first colon of the input separates it from Prefix.
type CURIE struct {
	Prefix     string
	Identifier string
}

// String returns the compact form of c.
func (c CURIE) String() string {
	return c.Prefix + ":" + c.Identifier
}

// LocalID returns the part of Identifier after its last colon.
func (c CURIE) LocalID() string {
	if i := strings.LastIndexByte(c.Identifier, ':'); i >= 0 {
		return c.Identifier[i+1:]
	}
	return c.Identifier
}

// Parse splits s at its first colon. The prefix is trimmed and lower-cased.
func Parse(s string) (CURIE, error) {
	prefix, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if !ok || prefix == "" || id == "" {
		return CURIE{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return CURIE{Prefix: prefix, Identifier: id}, nil
}

// Format parses s and renders it with the translated prefix.
func Format(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	mapped, ok := PrefixMap[c.Prefix]
	if !ok {
		return "", &UnrecognizedNamespaceError{Prefix: c.Prefix}
	}
	return mapped + ":" + c.LocalID(), nil
}

// Render formats the pair (prefix, id) as Format would format "prefix:id".
func Render(prefix, id string) (string, error) {
	return Format(prefix + ":" + id)
}

// Normalize returns the lower-cased, trimmed form of a namespace token.
func Normalize(prefix string) string {
	return strings.ToLower(strings.TrimSpace(prefix))
}
