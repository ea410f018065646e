// Package linediff renders line-level differences between two versions of a
// file in unified diff format.
package linediff

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrTooManyLines is returned when the inputs hold more distinct lines than
// can be encoded as runes.
var ErrTooManyLines = errors.New("too many distinct lines to diff")

const (
	surrogateMin = 0xD800
	surrogateLen = 0x800
	maxLines     = utf8.MaxRune + 1 - surrogateLen
)

type op struct {
	kind byte // ' ', '-' or '+'
	line string
}

// Unified returns a unified diff of a and b with context lines around each
// change, without file headers. It returns "" when a and b are equal.
func Unified(a, b []string, context int) (string, error) {
	ops, err := lineOps(a, b)
	if err != nil {
		return "", err
	}
	if context < 0 {
		context = 0
	}

	// oldAt[i] and newAt[i] count old and new lines before ops[i].
	oldAt := make([]int, len(ops)+1)
	newAt := make([]int, len(ops)+1)
	for i, o := range ops {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if o.kind != '+' {
			oldAt[i+1]++
		}
		if o.kind != '-' {
			newAt[i+1]++
		}
	}

	var out strings.Builder
	i := 0
	for i < len(ops) {
		for i < len(ops) && ops[i].kind == ' ' {
			i++
		}
		if i == len(ops) {
			break
		}

		start := max(i-context, 0)
		end := i
		for {
			for end < len(ops) && ops[end].kind != ' ' {
				end++
			}
			j := end
			for j < len(ops) && ops[j].kind == ' ' {
				j++
			}
			// Merge with the next change when the gap fits in both contexts.
			if j < len(ops) && j-end <= 2*context {
				end = j
				continue
			}
			end = min(end+context, len(ops))
			break
		}

		fmt.Fprintf(&out, "@@ -%s +%s @@\n",
			hunkRange(oldAt[start], oldAt[end]-oldAt[start]),
			hunkRange(newAt[start], newAt[end]-newAt[start]))
		for _, o := range ops[start:end] {
			out.WriteByte(o.kind)
			out.WriteString(o.line)
			if !strings.HasSuffix(o.line, "\n") {
				out.WriteString("\n\\ No newline at end of file\n")
			}
		}
		i = end
	}
	return out.String(), nil
}

func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	if count == 1 {
		return fmt.Sprintf("%d", before+1)
	}
	return fmt.Sprintf("%d,%d", before+1, count)
}

// lineOps diffs a and b with each distinct line encoded as one rune, so the
// character diff becomes a line diff.
func lineOps(a, b []string) ([]op, error) {
	index := make(map[string]rune)
	var table []string

	encode := func(lines []string) ([]rune, error) {
		out := make([]rune, len(lines))
		for i, l := range lines {
			r, ok := index[l]
			if !ok {
				if len(table) >= maxLines {
					return nil, ErrTooManyLines
				}
				r = toRune(len(table))
				index[l] = r
				table = append(table, l)
			}
			out[i] = r
		}
		return out, nil
	}

	ra, err := encode(a)
	if err != nil {
		return nil, err
	}
	rb, err := encode(b)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(ra, rb, false)

	var ops []op
	for _, d := range diffs {
		var kind byte
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			kind = ' '
		case diffmatchpatch.DiffDelete:
			kind = '-'
		case diffmatchpatch.DiffInsert:
			kind = '+'
		}
		for _, r := range d.Text {
			ops = append(ops, op{kind: kind, line: table[fromRune(r)]})
		}
	}
	return ops, nil
}

// toRune maps a table index to a rune, skipping the surrogate range, which
// does not survive conversion to a string.
func toRune(n int) rune {
	r := rune(n)
	if r >= surrogateMin {
		r += surrogateLen
	}
	return r
}

func fromRune(r rune) int {
	if r >= surrogateMin+surrogateLen {
		r -= surrogateLen
	}
	return int(r)
}
