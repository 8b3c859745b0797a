// Package srcindex implements the source index: byte<->(line,column)
// mapping, line-ending/indentation detection, a comment-range index, and
// noqa directive extraction.
//
// The byte-level text operations (indent detection, line splicing) follow
// the same shape as a small TakeIndent/Splice helper pair, generalized here
// into a reusable index over one immutable source buffer.
package srcindex

import (
	"regexp"
	"sort"
	"strings"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/token"
)

// LineEnding is the dominant newline style detected in a source file.
type LineEnding int

const (
	LF LineEnding = iota
	CRLF
	CR
)

// Indentation is the dominant indentation unit detected in a source file.
type Indentation struct {
	Tab   bool
	Width int // spaces per level; 0 when Tab is true
}

// Index is a read-only view over one file's source bytes plus the token
// stream lexed from it.
type Index struct {
	source     []byte
	lineStarts []int // byte offset of the start of each line, 0-based
	comments   []ast.Range
	lineEnding LineEnding
	indent     Indentation
	noqaCache  map[int]Directive // line (0-based) -> parsed directive
}

// New builds a Source Index over src, using tokens only to seed the
// comment-range index.
func New(src []byte, tokens *token.Stream) *Index {
	idx := &Index{source: src}
	idx.indexLines()
	idx.lineEnding = detectLineEnding(src)
	idx.indent = detectIndentation(src)
	if tokens != nil {
		for _, t := range tokens.Comments() {
			idx.comments = append(idx.comments, t.Range)
		}
	}
	idx.noqaCache = make(map[int]Directive)
	return idx
}

func (idx *Index) indexLines() {
	idx.lineStarts = []int{0}
	for i, b := range idx.source {
		if b == '\n' {
			idx.lineStarts = append(idx.lineStarts, i+1)
		}
	}
}

// LineStart returns the byte offset of the start of the line containing
// offset.
func (idx *Index) LineStart(offset int) int {
	line := idx.LineOf(offset)
	return idx.lineStarts[line]
}

// LineOf returns the 0-based line number containing offset.
func (idx *Index) LineOf(offset int) int {
	// lineStarts is sorted ascending; find the last start <= offset.
	i := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// Position converts a byte offset into a 1-based row / 0-based
// code-point column.
func (idx *Index) Position(offset int) (row, col int) {
	line := idx.LineOf(offset)
	start := idx.lineStarts[line]
	if offset > len(idx.source) {
		offset = len(idx.source)
	}
	col = len([]rune(string(idx.source[start:offset])))
	return line + 1, col
}

// Slice returns the source text within r.
func (idx *Index) Slice(r ast.Range) string {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(idx.source) {
		end = len(idx.source)
	}
	if start > end {
		return ""
	}
	return string(idx.source[start:end])
}

// LineFor returns the full text of the line containing r's start, excluding
// the trailing newline. Used by noqa extraction.
func (idx *Index) LineFor(r ast.Range) string {
	line := idx.LineOf(r.Start)
	start := idx.lineStarts[line]
	end := len(idx.source)
	if line+1 < len(idx.lineStarts) {
		end = idx.lineStarts[line+1]
	}
	text := string(idx.source[start:end])
	return strings.TrimRight(text, "\r\n")
}

// LineCount returns the number of lines in the indexed source, used by the
// arbiter to scan every line for a noqa directive regardless of whether any
// diagnostic landed on it.
func (idx *Index) LineCount() int { return len(idx.lineStarts) }

// LineRange returns the byte range of the given 0-based line, including its
// trailing newline if any — used to anchor a noqa-directive diagnostic that
// has no underlying rule violation to borrow a range from.
func (idx *Index) LineRange(line int) ast.Range {
	start := idx.lineStarts[line]
	end := len(idx.source)
	if line+1 < len(idx.lineStarts) {
		end = idx.lineStarts[line+1]
	}
	return ast.Range{Start: start, End: end}
}

// LineEndingStyle returns the dominant line ending detected for the file.
func (idx *Index) LineEndingStyle() LineEnding { return idx.lineEnding }

// IndentationStyle returns the dominant indentation unit detected for the
// file, used by autofixes that must reproduce the file's style.
func (idx *Index) IndentationStyle() Indentation { return idx.indent }

func detectLineEnding(src []byte) LineEnding {
	crlf, lf, cr := 0, 0, 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			if i > 0 && src[i-1] == '\r' {
				crlf++
			} else {
				lf++
			}
		} else if src[i] == '\r' {
			if i+1 >= len(src) || src[i+1] != '\n' {
				cr++
			}
		}
	}
	switch {
	case crlf >= lf && crlf >= cr && crlf > 0:
		return CRLF
	case cr > lf && cr > 0:
		return CR
	default:
		return LF
	}
}

func detectIndentation(src []byte) Indentation {
	spaceCounts := make(map[int]int)
	tabLines := 0
	lines := strings.Split(string(src), "\n")
	for _, line := range lines {
		indent := takeIndent(line)
		if indent == "" {
			continue
		}
		if strings.Contains(indent, "\t") {
			tabLines++
			continue
		}
		spaceCounts[len(indent)]++
	}
	if tabLines > 0 && tabLines >= sumCounts(spaceCounts) {
		return Indentation{Tab: true}
	}
	// Pick the smallest nonzero indent width seen, the common convention for
	// "the" indentation unit of a file (2 or 4 spaces, typically).
	best := 0
	for width := range spaceCounts {
		if best == 0 || width < best {
			best = width
		}
	}
	if best == 0 {
		best = 4
	}
	return Indentation{Width: best}
}

// takeIndent extracts the leading whitespace from a line.
func takeIndent(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '\t' {
			b.WriteRune(r)
		} else {
			break
		}
	}
	return b.String()
}

func sumCounts(m map[int]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// CommentRanges returns the ordered comment-range index.
func (idx *Index) CommentRanges() []ast.Range { return idx.comments }

// InComment reports whether offset falls inside a lexed comment, in
// O(log n) via binary search over the (disjoint, sorted) comment ranges.
func (idx *Index) InComment(offset int) bool {
	i := sort.Search(len(idx.comments), func(i int) bool {
		return idx.comments[i].Start > offset
	})
	if i == 0 {
		return false
	}
	r := idx.comments[i-1]
	return offset >= r.Start && offset < r.End
}

// Directive is a parsed noqa directive.
type Directive struct {
	Present bool
	All     bool
	Codes   map[string]bool
}

// Suppresses reports whether the directive suppresses a diagnostic with the
// given rule code.
func (d Directive) Suppresses(code string) bool {
	if !d.Present {
		return false
	}
	if d.All {
		return true
	}
	return d.Codes[code]
}

var noqaRe = regexp.MustCompile(`(?i)#\s*noqa\b\s*(:\s*([A-Z]+[0-9]+(?:[\s,]+[A-Z]+[0-9]+)*))?`)

// ExtractNoqa parses the recognized noqa forms from a single logical line's
// text: "# noqa", "# noqa: CODE", "# noqa: CODE1, CODE2". Matching is
// case-insensitive on the "noqa" keyword, case-sensitive on codes. Trailing
// content after the codes is ignored.
func ExtractNoqa(line string) Directive {
	m := noqaRe.FindStringSubmatch(line)
	if m == nil {
		return Directive{}
	}
	if m[2] == "" {
		return Directive{Present: true, All: true}
	}
	codes := make(map[string]bool)
	for _, code := range strings.Fields(strings.ReplaceAll(m[2], ",", " ")) {
		codes[code] = true
	}
	if len(codes) == 0 {
		return Directive{Present: true, All: true}
	}
	return Directive{Present: true, Codes: codes}
}

// NoqaForLine returns (and caches) the parsed directive for the 0-based
// line number, extracting it from the source on first use.
func (idx *Index) NoqaForLine(line int) Directive {
	if d, ok := idx.noqaCache[line]; ok {
		return d
	}
	if line < 0 || line >= len(idx.lineStarts) {
		return Directive{}
	}
	start := idx.lineStarts[line]
	end := len(idx.source)
	if line+1 < len(idx.lineStarts) {
		end = idx.lineStarts[line+1]
	}
	text := strings.TrimRight(string(idx.source[start:end]), "\r\n")
	d := ExtractNoqa(text)
	idx.noqaCache[line] = d
	return d
}

// NoqaLineFor returns the authoritative line number (0-based) a noqa
// directive for a diagnostic raised at r should be looked up on: the start
// line of r, unless the caller knows the originating statement began
// earlier (multi-line statements), in which case pass that line explicitly
// via NoqaForLine.
func (idx *Index) NoqaLineFor(r ast.Range) int {
	return idx.LineOf(r.Start)
}
