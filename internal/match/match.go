// Package match finds ISBN-shaped digit runs in free text.
//
// One pattern covers both ISBN-10 and ISBN-13 shapes: nine mandatory digits,
// up to three optional digits and a final check character, where every digit
// may be followed by spaces and a hyphen or en-dash separator. Whether a
// candidate really is an ISBN is decided later by package isbn.
package match

import (
	"iter"
	"regexp"
	"strings"
)

// Marker selects the parenthesised word that must follow a digit run.
type Marker int

const (
	// MarkerNone matches bare digit runs.
	MarkerNone Marker = iota
	// MarkerPDF requires a trailing "(PDF)".
	MarkerPDF
	// MarkerAnyWord requires a trailing "(<word>)", e.g. "(ebook)".
	MarkerAnyWord
)

const (
	digitUnit = `\d *(?:[-–] *)?`
	checkChar = `[0-9X]`
)

// runPattern is the shared digit-run expression, captured as group 1.
var runPattern = `(` + strings.Repeat(digitUnit, 9) +
	strings.Repeat(`(?:`+digitUnit+`)?`, 3) + checkChar + `)`

var markerPatterns = map[Marker]string{
	MarkerNone:    ``,
	MarkerPDF:     ` *\( *pdf *\)`,
	MarkerAnyWord: ` *\( *([\w.]+) *\)`,
}

// Candidate is an unvalidated ISBN-shaped substring.
type Candidate struct {
	Raw    string // the digit run including separators
	Offset int    // byte offset of Raw in the scanned text
	Marker string // word inside the trailing parentheses, if any
}

// Matcher scans text for candidates. It is safe for concurrent use.
type Matcher struct {
	re     *regexp.Regexp
	marker Marker
}

// Option configures a Matcher.
type Option func(*options)

type options struct {
	foldCase bool
}

// WithFoldCase makes the trailing marker and the X check character match
// case-insensitively.
func WithFoldCase() Option {
	return func(o *options) { o.foldCase = true }
}

// New builds a Matcher for the given marker mode.
func New(marker Marker, opts ...Option) *Matcher {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	suffix, ok := markerPatterns[marker]
	if !ok {
		panic("match: unknown marker mode")
	}
	expr := runPattern + suffix
	if o.foldCase {
		expr = `(?i)` + expr
	}
	return &Matcher{re: regexp.MustCompile(expr), marker: marker}
}

// Scan lazily yields candidates left to right without overlap.
func (m *Matcher) Scan(text string) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		pos := 0
		for pos < len(text) {
			loc := m.re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			c := Candidate{
				Raw:    text[pos+loc[2] : pos+loc[3]],
				Offset: pos + loc[2],
			}
			switch m.marker {
			case MarkerPDF:
				c.Marker = "PDF"
			case MarkerAnyWord:
				c.Marker = text[pos+loc[4] : pos+loc[5]]
			}
			if !yield(c) {
				return
			}
			pos += loc[1]
		}
	}
}

// Find returns every candidate in text.
func (m *Matcher) Find(text string) []Candidate {
	var out []Candidate
	for c := range m.Scan(text) {
		out = append(out, c)
	}
	return out
}
