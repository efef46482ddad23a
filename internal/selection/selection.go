// Package selection picks which validated ISBNs to report.
package selection

import (
	"fmt"
	"iter"
	"strings"

	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/isbn"
	"github.com/spherical/isbn-sniffer/internal/match"
)

// Strategy names a selection rule
type Strategy int

const (
	First Strategy = iota + 1
	Last
	All
)

func (s Strategy) String() string {
	switch s {
	case First:
		return "first"
	case Last:
		return "last"
	case All:
		return "all"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Apply selects from seq according to s. First stops pulling after the
// first element; Last drains seq; All keeps order and duplicates.
// An unknown strategy is a programming error and panics.
func Apply(s Strategy, seq iter.Seq[isbn.ISBN]) []isbn.ISBN {
	switch s {
	case First:
		for v := range seq {
			return []isbn.ISBN{v}
		}
		return nil
	case Last:
		var last isbn.ISBN
		found := false
		for v := range seq {
			last, found = v, true
		}
		if !found {
			return nil
		}
		return []isbn.ISBN{last}
	case All:
		var out []isbn.ISBN
		for v := range seq {
			out = append(out, v)
		}
		return out
	default:
		panic(fmt.Sprintf("selection: invalid strategy %v", s))
	}
}

// One applies a single-value strategy and returns the zero ISBN when
// nothing was selected.
func One(s Strategy, seq iter.Seq[isbn.ISBN]) isbn.ISBN {
	if s == All {
		panic("selection: One called with strategy all")
	}
	if got := Apply(s, seq); len(got) > 0 {
		return got[0]
	}
	return isbn.ISBN{}
}

// Validated turns candidates into ISBNs, silently dropping those that fail
// validation. Rejections are logged at debug level when log is non-nil.
func Validated(candidates iter.Seq[match.Candidate], log *domain.Logger) iter.Seq[isbn.ISBN] {
	return func(yield func(isbn.ISBN) bool) {
		for c := range candidates {
			v, err := isbn.Parse(c.Raw)
			if err != nil {
				if log != nil {
					log.Debug("%q is not a valid ISBN", c.Raw)
				}
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}
