// Package isbn validates ISBN-10 and ISBN-13 codes and renders them in
// hyphenated display form.
package isbn

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalid is returned when a string is neither a valid ISBN-10 nor a
// valid ISBN-13.
var ErrInvalid = errors.New("not a valid ISBN")

// ISBN is a validated ISBN in display form. The zero value means "none".
type ISBN struct {
	compact string
	display string
}

// Parse validates raw (digits with optional hyphens, en-dashes or spaces)
// and returns the normalised ISBN.
func Parse(raw string) (ISBN, error) {
	c := Compact(raw)
	switch {
	case IsISBN13(c), IsISBN10(c):
		return ISBN{compact: c, display: Hyphenate(c)}, nil
	default:
		return ISBN{}, ErrInvalid
	}
}

// MustParse is like Parse but panics on invalid input. Intended for tests
// and constants.
func MustParse(raw string) ISBN {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the hyphenated display form.
func (i ISBN) String() string {
	return i.display
}

// Compact returns the ISBN without separators.
func (i ISBN) Compact() string {
	return i.compact
}

// IsZero reports whether i holds no ISBN.
func (i ISBN) IsZero() bool {
	return i.compact == ""
}

// Agency returns the registration group agency, e.g. "English language",
// or "" when the range table has no rule for i.
func (i ISBN) Agency() string {
	if i.IsZero() {
		return ""
	}
	return current.Load().Agency(i.compact)
}

// Is13 reports whether i is an ISBN-13.
func (i ISBN) Is13() bool {
	return len(i.compact) == 13
}

// To13 returns the ISBN-13 equivalent of i. ISBN-13 values are returned
// unchanged.
func (i ISBN) To13() ISBN {
	if i.IsZero() || i.Is13() {
		return i
	}
	body := "978" + i.compact[:9]
	c := body + string(check13(body))
	return ISBN{compact: c, display: Hyphenate(c)}
}

// Compact strips separators from raw and upper-cases a trailing x.
func Compact(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		case r == '-' || r == '–' || unicode.IsSpace(r):
		default:
			// Anything else makes the value invalid; keep it so the
			// length and digit checks reject it.
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsISBN10 validates a compact ISBN-10: ten characters, weights 10..1,
// sum divisible by 11, only the last character may be X.
func IsISBN10(c string) bool {
	if len(c) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 10; i++ {
		var d int
		switch ch := c[i]; {
		case ch >= '0' && ch <= '9':
			d = int(ch - '0')
		case ch == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

// IsISBN13 validates a compact ISBN-13: thirteen digits with a 978 or 979
// prefix and a valid EAN-13 check digit.
func IsISBN13(c string) bool {
	if len(c) != 13 || !(strings.HasPrefix(c, "978") || strings.HasPrefix(c, "979")) {
		return false
	}
	for i := 0; i < 13; i++ {
		if c[i] < '0' || c[i] > '9' {
			return false
		}
	}
	return check13(c[:12]) == c[12]
}

func check13(body string) byte {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(body[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}
