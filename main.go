// oboxref adds cross-references from a mapping table to an OBO ontology file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phobologic/oboxref/internal/linediff"
	"github.com/phobologic/oboxref/internal/mapping"
	"github.com/phobologic/oboxref/internal/model"
	"github.com/phobologic/oboxref/internal/obo"
	"github.com/phobologic/oboxref/internal/toon"
)

var version = "dev"

const (
	defaultOBOPath = "src/ontology/mondo-edit.obo"
	defaultPrefix  = "mondo"
	diffContext    = 3
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("oboxref", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		mappingsPath string
		prefix       string
		excludePath  string
		dryRun       bool
		showDiff     bool
		showReport   bool
		showVersion  bool
	)

	fs.StringVar(&mappingsPath, "m", "", "mapping table (TSV)")
	fs.StringVar(&mappingsPath, "mappings", "", "mapping table (TSV)")
	fs.StringVar(&prefix, "p", defaultPrefix, "namespace of the ontology being edited")
	fs.StringVar(&prefix, "prefix", defaultPrefix, "namespace of the ontology being edited")
	fs.StringVar(&excludePath, "exclude", "", "file of gitignore-style CURIE patterns to skip")
	fs.BoolVar(&dryRun, "dry-run", false, "print the edited file instead of writing it")
	fs.BoolVar(&showDiff, "diff", false, "print a diff of the edits instead of writing them")
	fs.BoolVar(&showReport, "report", false, "print a TOON report of the run")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: oboxref [flags] [path-to-obo]

Add xref lines from a mapping table to the matching terms of an OBO file.
Existing xrefs are left alone and each term's xrefs stay sorted. The file is
only written once every mapping has been applied.

path-to-obo defaults to %s.

Flags:
`, defaultOBOPath)
		fs.PrintDefaults()
	}

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "oboxref %s\n", version)
		return nil
	}

	if mappingsPath == "" {
		return fmt.Errorf("no mapping table given (use -m)")
	}

	path := defaultOBOPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	all, err := mapping.LoadFile(mappingsPath)
	if err != nil {
		return err
	}
	mappings := mapping.FilterSource(all, prefix)

	var excluded int
	if excludePath != "" {
		ex, err := mapping.LoadExcludes(excludePath)
		if err != nil {
			return err
		}
		mappings, excluded = ex.Filter(mappings)
	}

	lines, err := obo.ReadLines(path)
	if err != nil {
		return err
	}

	edited, edits, err := obo.Apply(lines, mappings)
	if err != nil {
		return fmt.Errorf("editing %s: %w", path, err)
	}

	report := &model.Report{
		File:     path,
		Mappings: len(mappings),
		Excluded: excluded,
		Edits:    edits,
	}
	warnMissing(stderr, path, edits)

	inserted := report.Count(model.Inserted)
	write := !dryRun && !showDiff

	switch {
	case showDiff:
		d, err := linediff.Unified(lines, edited, diffContext)
		if err != nil {
			return fmt.Errorf("diffing %s: %w", path, err)
		}
		if d != "" {
			_, _ = fmt.Fprintf(stdout, "--- %s\n+++ %s\n%s", path, path, d)
		}
	case dryRun:
		_, _ = fmt.Fprint(stdout, obo.Join(edited))
	case inserted > 0:
		if err := obo.WriteLines(path, edited); err != nil {
			return err
		}
	}

	if showReport {
		_, _ = fmt.Fprintln(stdout, toon.EncodeReport(report))
	}

	verb := "added"
	if !write {
		verb = "would add"
	}
	_, _ = fmt.Fprintf(stderr, "%s %d xrefs to %s (%d duplicate, %d missing, %d excluded)\n",
		verb, inserted, path, report.Count(model.Duplicate), report.Count(model.NodeNotFound), excluded)
	return nil
}

// warnMissing prints one warning per term that has mappings but no block.
func warnMissing(stderr io.Writer, path string, edits []model.Edit) {
	seen := make(map[string]struct{})
	for _, e := range edits {
		if e.Outcome != model.NodeNotFound {
			continue
		}
		if _, ok := seen[e.Node]; ok {
			continue
		}
		seen[e.Node] = struct{}{}
		_, _ = fmt.Fprintf(stderr, "Warning: %s: not found in %s\n", e.Node, path)
	}
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-m": true, "--m": true,
	"-mappings": true, "--mappings": true,
	"-p": true, "--p": true,
	"-prefix": true, "--prefix": true,
	"-exclude": true, "--exclude": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
