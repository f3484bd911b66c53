package syntax

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
)

// Block is one `keyword: name { body }` occurrence.
type Block struct {
	Keyword string
	Name    string
	// Body is the text strictly between the outer braces.
	Body string
	// Range covers the whole occurrence, from the keyword to the closing brace.
	Range hcl.Range
	// BodyRange covers Body only.
	BodyRange hcl.Range
}

// Unclosed describes an occurrence whose opening brace has no match.
type Unclosed struct {
	Keyword string
	Name    string
	Subject hcl.Range
}

// UnbalancedError reports occurrences dropped because their braces never
// balanced. Extract returns it together with the blocks that did balance.
type UnbalancedError struct {
	Filename string
	Blocks   []Unclosed
}

func (e *UnbalancedError) Error() string {
	parts := make([]string, 0, len(e.Blocks))
	for _, b := range e.Blocks {
		parts = append(parts, fmt.Sprintf("%s: %s (line %d)", b.Keyword, b.Name, b.Subject.Start.Line))
	}
	name := e.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("unbalanced block(s) in %s: %s", name, strings.Join(parts, ", "))
}

// Diagnostics renders the error as HCL warning diagnostics, one per dropped
// block, so callers can log them with source ranges.
func (e *UnbalancedError) Diagnostics() hcl.Diagnostics {
	diags := make(hcl.Diagnostics, 0, len(e.Blocks))
	for _, b := range e.Blocks {
		subject := b.Subject
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  "Unbalanced block",
			Detail:   fmt.Sprintf("The %s block %q has no matching closing brace and was ignored.", b.Keyword, b.Name),
			Subject:  &subject,
		})
	}
	return diags
}

var blockPatterns sync.Map // keyword -> *regexp.Regexp

func blockPattern(keyword string) *regexp.Regexp {
	if re, ok := blockPatterns.Load(keyword); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\s*:\s*([a-zA-Z0-9_]+)\s*\{`)
	actual, _ := blockPatterns.LoadOrStore(keyword, re)
	return actual.(*regexp.Regexp)
}

// Extract returns every outermost `keyword: name { ... }` occurrence in text,
// in document order. Occurrences nested inside an earlier same-keyword block
// are not returned; call Extract again on the body to reach them, or use
// ExtractNested.
//
// Braces are matched with a stack. An occurrence whose opening brace is never
// closed is dropped and reported through a non-nil *UnbalancedError; the
// balanced blocks are returned regardless.
func Extract(filename, text, keyword string) ([]Block, error) {
	idx := newLineIndex(filename, text)
	matches := blockPattern(keyword).FindAllStringSubmatchIndex(text, -1)

	var (
		blocks   []Block
		unclosed []Unclosed
		// end of the last returned block; matches before it are nested.
		coveredUntil = -1
	)
	for _, m := range matches {
		start := m[0]
		if start < coveredUntil {
			continue
		}
		name := text[m[2]:m[3]]
		open := m[1] - 1

		closeAt := matchBrace(text, open)
		if closeAt < 0 {
			unclosed = append(unclosed, Unclosed{
				Keyword: keyword,
				Name:    name,
				Subject: idx.rangeOf(start, m[1]),
			})
			continue
		}

		blocks = append(blocks, Block{
			Keyword:   keyword,
			Name:      name,
			Body:      text[open+1 : closeAt],
			Range:     idx.rangeOf(start, closeAt+1),
			BodyRange: idx.rangeOf(open+1, closeAt),
		})
		coveredUntil = closeAt + 1
	}

	if len(unclosed) > 0 {
		return blocks, &UnbalancedError{Filename: filename, Blocks: unclosed}
	}
	return blocks, nil
}

// ExtractNested extracts keyword blocks at every depth: the outermost ones
// first, each followed by the blocks found recursively inside its body.
// Ranges of nested blocks are relative to the body they were found in.
func ExtractNested(filename, text, keyword string) ([]Block, error) {
	var (
		all      []Block
		unclosed []Unclosed
	)
	var walk func(string)
	walk = func(s string) {
		blocks, err := Extract(filename, s, keyword)
		if ue, ok := err.(*UnbalancedError); ok {
			unclosed = append(unclosed, ue.Blocks...)
		}
		for _, b := range blocks {
			all = append(all, b)
			walk(b.Body)
		}
	}
	walk(text)

	if len(unclosed) > 0 {
		return all, &UnbalancedError{Filename: filename, Blocks: unclosed}
	}
	return all, nil
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(text string, open int) int {
	var stack []int
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			stack = append(stack, i)
		case '}':
			if len(stack) == 0 {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

// TopLevel returns body with every nested `{ ... }` span replaced by spaces
// (newlines kept), leaving only the text at the body's own level. An unclosed
// span is blanked to the end.
func TopLevel(body string) string {
	out := []byte(body)
	depth := 0
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c == '{':
			depth++
			out[i] = ' '
		case c == '}' && depth > 0:
			depth--
			out[i] = ' '
		case depth > 0 && c != '\n':
			out[i] = ' '
		}
	}
	return string(out)
}

// lineIndex converts byte offsets into hcl positions.
type lineIndex struct {
	filename string
	starts   []int
}

func newLineIndex(filename, text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{filename: filename, starts: starts}
}

func (l *lineIndex) pos(offset int) hcl.Pos {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return hcl.Pos{Line: line + 1, Column: offset - l.starts[line] + 1, Byte: offset}
}

func (l *lineIndex) rangeOf(start, end int) hcl.Range {
	return hcl.Range{Filename: l.filename, Start: l.pos(start), End: l.pos(end)}
}
