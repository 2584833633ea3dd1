// Package diff computes the word-level diff shown in the review overlay.
// Whitespace runs are tokens of their own so spacing and line breaks survive.
package diff

import (
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of change a Segment represents.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "equal"
	}
}

// Segment is a run of text with a single Op.
type Segment struct {
	Op   Op
	Text string
}

// Words diffs original against improved word by word.
func Words(original, improved string) []Segment {
	if original == improved {
		if original == "" {
			return nil
		}
		return []Segment{{Op: Equal, Text: original}}
	}
	var t tokenTable
	a := t.encode(Tokenize(original))
	b := t.encode(Tokenize(improved))

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(a, b, false)

	var out []Segment
	for _, d := range diffs {
		text := t.decode(d.Text)
		if text == "" {
			continue
		}
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Insert
		case diffmatchpatch.DiffDelete:
			op = Delete
		}
		if n := len(out); n > 0 && out[n-1].Op == op {
			out[n-1].Text += text
			continue
		}
		out = append(out, Segment{Op: op, Text: text})
	}
	return out
}

// Original rebuilds the left-hand text from segments.
func Original(segs []Segment) string {
	return join(segs, Delete)
}

// Improved rebuilds the right-hand text from segments.
func Improved(segs []Segment) string {
	return join(segs, Insert)
}

func join(segs []Segment, side Op) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Op == Equal || s.Op == side {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Tokenize splits text into words, horizontal whitespace runs and single newlines.
func Tokenize(text string) []string {
	var tokens []string
	start := -1
	kind := 0 // 1 word, 2 space
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, text[start:end])
			start = -1
		}
	}
	for i, r := range text {
		switch {
		case r == '\n':
			flush(i)
			tokens = append(tokens, "\n")
			kind = 0
		case unicode.IsSpace(r):
			if kind != 2 {
				flush(i)
				start, kind = i, 2
			}
		default:
			if kind != 1 {
				flush(i)
				start, kind = i, 1
			}
		}
	}
	flush(len(text))
	return tokens
}

// tokenTable maps each distinct token to a rune so diffmatchpatch can diff
// token sequences as if they were characters.
type tokenTable struct {
	index  map[string]rune
	tokens []string
}

func (t *tokenTable) encode(tokens []string) []rune {
	if t.index == nil {
		t.index = make(map[string]rune)
	}
	out := make([]rune, 0, len(tokens))
	for _, tok := range tokens {
		r, ok := t.index[tok]
		if !ok {
			r = indexRune(len(t.tokens))
			t.index[tok] = r
			t.tokens = append(t.tokens, tok)
		}
		out = append(out, r)
	}
	return out
}

func (t *tokenTable) decode(s string) string {
	var sb strings.Builder
	for _, r := range s {
		sb.WriteString(t.tokens[runeIndex(r)])
	}
	return sb.String()
}

// indexRune skips the surrogate block so every index is a valid rune.
func indexRune(i int) rune {
	if i < 0xD800 {
		return rune(i)
	}
	return rune(i + 0x800)
}

func runeIndex(r rune) int {
	if r < 0xD800 {
		return int(r)
	}
	return int(r) - 0x800
}
