// Package report renders lookup results for stdout.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/extract"
	"github.com/spherical/isbn-sniffer/internal/isbn"
)

// Format selects the output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps an --output value to a Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", domain.ValidationError(fmt.Sprintf("unknown output format %q (want text, json or yaml)", name), nil)
	}
}

// Document is the structured form of a result
type Document struct {
	File   string  `json:"file" yaml:"file"`
	Type   string  `json:"type" yaml:"type"`
	Found  bool    `json:"found" yaml:"found"`
	ISBN   string  `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ISBN13 string  `json:"isbn13,omitempty" yaml:"isbn13,omitempty"`
	Source string  `json:"source,omitempty" yaml:"source,omitempty"`
	Agency string  `json:"agency,omitempty" yaml:"agency,omitempty"`
	Labels []Label `json:"labels,omitempty" yaml:"labels,omitempty"`
	RunID  string  `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// Label is one labelled entry of an all-matches result
type Label struct {
	Label string   `json:"label" yaml:"label"`
	ISBNs []string `json:"isbns" yaml:"isbns"`
}

// NewDocument converts a result into its structured form
func NewDocument(res *extract.Result, runID string) Document {
	doc := Document{
		File:  res.Path,
		Type:  string(res.FileType),
		Found: res.Found(),
		RunID: runID,
	}

	if !res.All {
		if !res.ISBN.IsZero() {
			doc.ISBN = res.ISBN.String()
			doc.ISBN13 = res.ISBN.To13().String()
			doc.Source = string(res.Source)
			doc.Agency = res.ISBN.Agency()
		}
		return doc
	}

	for _, e := range res.Entries {
		doc.Labels = append(doc.Labels, Label{Label: e.Label, ISBNs: display(e.ISBNs)})
	}
	return doc
}

// Render writes res to w in the requested format
func Render(w io.Writer, format Format, res *extract.Result, runID string) error {
	switch format {
	case FormatText, "":
		return renderText(w, res)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(res, runID))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(res, runID)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return domain.ValidationError(fmt.Sprintf("unknown output format %q", format), nil)
	}
}

const noMatch = "none"

// renderText prints the bare ISBN, or one "Label: value" line per entry.
// Entries without matches read "none".
func renderText(w io.Writer, res *extract.Result) error {
	if !res.All {
		if res.ISBN.IsZero() {
			return nil
		}
		_, err := fmt.Fprintln(w, res.ISBN)
		return err
	}

	for _, e := range res.Entries {
		value := noMatch
		if len(e.ISBNs) > 0 {
			value = strings.Join(display(e.ISBNs), ", ")
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Label, value); err != nil {
			return err
		}
	}
	return nil
}

func display(values []isbn.ISBN) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.String())
	}
	return out
}
