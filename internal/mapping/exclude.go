package mapping

import (
	"fmt"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/oboxref/internal/curie"
	"github.com/phobologic/oboxref/internal/model"
)

// Excludes holds gitignore-style patterns matched against rendered CURIEs.
// A mapping is excluded when either its source term or its xref matches.
type Excludes struct {
	gi *ignore.GitIgnore
}

// CompileExcludes builds Excludes from pattern lines such as "DOID:*",
// "MONDO:0005148" or "!DOID:4".
func CompileExcludes(lines ...string) *Excludes {
	return &Excludes{gi: ignore.CompileIgnoreLines(lines...)}
}

// LoadExcludes reads exclusion patterns from a file, one per line.
func LoadExcludes(path string) (*Excludes, error) {
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading excludes: %w", err)
	}
	return &Excludes{gi: gi}, nil
}

// Match reports whether m should be skipped.
func (e *Excludes) Match(m model.Mapping) bool {
	if e == nil || e.gi == nil {
		return false
	}
	return e.gi.MatchesPath(render(m.SourcePrefix, m.SourceID)) ||
		e.gi.MatchesPath(render(m.TargetPrefix, m.TargetID))
}

// Filter returns the mappings not matched by e and how many were dropped.
func (e *Excludes) Filter(mappings []model.Mapping) ([]model.Mapping, int) {
	var kept []model.Mapping
	dropped := 0
	for _, m := range mappings {
		if e.Match(m) {
			dropped++
			continue
		}
		kept = append(kept, m)
	}
	return kept, dropped
}

// render falls back to the raw CURIE when the namespace is unknown; the
// editor reports that error later.
func render(prefix, id string) string {
	s, err := curie.Render(prefix, id)
	if err != nil {
		return prefix + ":" + id
	}
	return s
}
