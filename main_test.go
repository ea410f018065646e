package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleOBO = `format-version: 1.2
ontology: mondo

[Term]
id: MONDO:0000001
name: disease
def: "A disease." [x]
xref: DOID:4
is_a: MONDO:0000000

[Term]
id: MONDO:0000002
name: other disease
def: "Another disease." [y]
is_a: MONDO:0000001

`

const sampleMappings = `source prefix	source identifier	source name	relation	target prefix	target identifier	target name
mondo	0000001	disease	skos:exactMatch	doid	5	disease
mondo	0000001	disease	skos:exactMatch	doid	4	disease
mondo	0000002	other disease	skos:exactMatch	mesh	D000002	other
mondo	0000009	unknown	skos:exactMatch	ncit	C1	unknown
doid	5	disease	skos:exactMatch	mesh	D000001	disease
`

func writeTestFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func createSampleInputs(t *testing.T) (oboPath, mappingsPath string) {
	t.Helper()
	dir := t.TempDir()
	oboPath = writeTestFile(t, dir, "src/ontology/mondo-edit.obo", sampleOBO)
	mappingsPath = writeTestFile(t, dir, "mappings.tsv", sampleMappings)
	return oboPath, mappingsPath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunBasic(t *testing.T) {
	t.Parallel()
	oboPath, mappingsPath := createSampleInputs(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-m", mappingsPath, oboPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	got := readFile(t, oboPath)
	if !strings.Contains(got, "xref: DOID:4\nxref: DOID:5 {source=\"MONDO:equivalentTo\"}\nis_a: MONDO:0000000\n") {
		t.Errorf("DOID:5 not inserted after DOID:4:\n%s", got)
	}
	if !strings.Contains(got, "def: \"Another disease.\" [y]\nxref: MESH:D000002 {source=\"MONDO:equivalentTo\"}\nis_a: MONDO:0000001\n") {
		t.Errorf("MESH:D000002 not inserted after def:\n%s", got)
	}
	if strings.Contains(got, "MESH:D000001") {
		t.Error("mapping with a non-mondo source should be filtered out")
	}
	if strings.Count(got, "DOID:4") != 1 {
		t.Error("existing DOID:4 xref duplicated")
	}

	errOut := stderr.String()
	if !strings.Contains(errOut, "Warning: MONDO:0000009: not found") {
		t.Errorf("missing not-found warning:\n%s", errOut)
	}
	if !strings.Contains(errOut, "added 2 xrefs") {
		t.Errorf("missing summary:\n%s", errOut)
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout: %q", stdout.String())
	}
}

func TestRunIdempotent(t *testing.T) {
	t.Parallel()
	oboPath, mappingsPath := createSampleInputs(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-m", mappingsPath, oboPath}, &stdout, &stderr); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := readFile(t, oboPath)

	stderr.Reset()
	if err := run([]string{"-m", mappingsPath, oboPath}, &stdout, &stderr); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second := readFile(t, oboPath); second != first {
		t.Errorf("second run changed the file:\n%s", second)
	}
	if !strings.Contains(stderr.String(), "added 0 xrefs") {
		t.Errorf("second run summary:\n%s", stderr.String())
	}
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()
	oboPath, mappingsPath := createSampleInputs(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{oboPath, "--dry-run", "-m", mappingsPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if readFile(t, oboPath) != sampleOBO {
		t.Error("--dry-run modified the file")
	}
	if !strings.Contains(stdout.String(), "xref: DOID:5 {source=\"MONDO:equivalentTo\"}\n") {
		t.Errorf("dry-run output missing insertion:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "would add 2 xrefs") {
		t.Errorf("summary:\n%s", stderr.String())
	}
}

func TestRunDiff(t *testing.T) {
	t.Parallel()
	oboPath, mappingsPath := createSampleInputs(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-diff", "-m", mappingsPath, oboPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if readFile(t, oboPath) != sampleOBO {
		t.Error("-diff modified the file")
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "--- "+oboPath+"\n+++ "+oboPath+"\n@@ ") {
		t.Errorf("missing diff header:\n%s", out)
	}
	if !strings.Contains(out, "\n xref: DOID:4\n+xref: DOID:5 {source=\"MONDO:equivalentTo\"}\n") {
		t.Errorf("diff missing DOID:5 insertion:\n%s", out)
	}
	if !strings.Contains(out, "+xref: MESH:D000002 ") {
		t.Errorf("diff missing MESH insertion:\n%s", out)
	}
}

func TestRunReport(t *testing.T) {
	t.Parallel()
	oboPath, mappingsPath := createSampleInputs(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-report", "-m", mappingsPath, oboPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"mappings: 4",
		"inserted[2]{node,xref,line}:",
		"duplicates[1]{node,xref}:",
		`  "MONDO:0000001","DOID:4"`,
		"missing[1]{node,xref}:",
		`  "MONDO:0000009","NCIT:C1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRunExclude(t *testing.T) {
	t.Parallel()
	oboPath, mappingsPath := createSampleInputs(t)
	excludePath := writeTestFile(t, filepath.Dir(mappingsPath), ".xrefignore", "MESH:*\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-m", mappingsPath, "-exclude", excludePath, oboPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := readFile(t, oboPath)
	if strings.Contains(got, "MESH:D000002") {
		t.Error("excluded mapping was applied")
	}
	if !strings.Contains(got, "DOID:5") {
		t.Error("non-excluded mapping was not applied")
	}
	if !strings.Contains(stderr.String(), "1 excluded") {
		t.Errorf("summary:\n%s", stderr.String())
	}
}

func TestRunPrefix(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	oboPath := writeTestFile(t, dir, "doid-edit.obo", "id: DOID:5\nname: disease\n\n")
	mappingsPath := writeTestFile(t, dir, "mappings.tsv", sampleMappings)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-p", "doid", "-m", mappingsPath, oboPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "id: DOID:5\nname: disease\nxref: MESH:D000001 {source=\"MONDO:equivalentTo\"}\n\n"
	if got := readFile(t, oboPath); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunUnrecognizedNamespace(t *testing.T) {
	t.Parallel()
	oboPath, _ := createSampleInputs(t)
	mappingsPath := writeTestFile(t, t.TempDir(), "bad.tsv",
		"source prefix\tsource identifier\ttarget prefix\ttarget identifier\n"+
			"mondo\t0000001\tdoid\t5\n"+
			"mondo\t0000001\thp\t0000118\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-m", mappingsPath, oboPath}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for unrecognized namespace")
	}
	if !strings.Contains(err.Error(), `unrecognized namespace "hp"`) {
		t.Errorf("error = %v", err)
	}
	if readFile(t, oboPath) != sampleOBO {
		t.Error("file modified despite failure")
	}
}

func TestRunMissingAnchor(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	oboPath := writeTestFile(t, dir, "mondo-edit.obo", "id: MONDO:0000001\nis_a: MONDO:0000000\n\n")
	mappingsPath := writeTestFile(t, dir, "mappings.tsv", sampleMappings)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-m", mappingsPath, oboPath}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "no def or name line") {
		t.Errorf("expected missing anchor error, got %v", err)
	}
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()
	_, mappingsPath := createSampleInputs(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-m", mappingsPath, filepath.Join(t.TempDir(), "nope.obo")}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for missing OBO file")
	}
}

func TestRunNoMappings(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"x.obo"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "-m") {
		t.Errorf("expected missing mapping table error, got %v", err)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-V"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "oboxref") {
		t.Errorf("version output: %q", stdout.String())
	}
}

func TestReorderArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"flags first", []string{"-m", "m.tsv", "x.obo"}, []string{"-m", "m.tsv", "x.obo"}},
		{"positional first", []string{"x.obo", "-m", "m.tsv"}, []string{"-m", "m.tsv", "x.obo"}},
		{"mixed", []string{"-p", "doid", "x.obo", "--dry-run"}, []string{"-p", "doid", "--dry-run", "x.obo"}},
		{"exclude", []string{"x.obo", "-exclude", ".xrefignore"}, []string{"-exclude", ".xrefignore", "x.obo"}},
		{"double dash", []string{"-diff", "--", "x.obo"}, []string{"-diff", "x.obo"}},
		{"no flags", []string{"x.obo"}, []string{"x.obo"}},
		{"no args", nil, nil},
		{"bool flag", []string{"-V"}, []string{"-V"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := reorderArgs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: got %q, want %q (full: %v)", i, got[i], tt.want[i], got)
					break
				}
			}
		})
	}
}
