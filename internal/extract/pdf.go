package extract

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/isbn"
	"github.com/spherical/isbn-sniffer/internal/match"
	"github.com/spherical/isbn-sniffer/internal/selection"
)

// PDFExtractor searches the front and back matter of a PDF. Publishers
// print "ISBN ... (PDF)" next to the print edition numbers, and reprints
// list newer numbers after older ones, so the last marked match wins.
type PDFExtractor struct {
	text     domain.TextExtractor
	counter  domain.PageCounter
	leading  int
	trailing int
	logger   *domain.Logger

	marked  *match.Matcher
	bare    *match.Matcher
	anyWord *match.Matcher
}

// NewPDFExtractor creates a PDF extractor scanning the first leading and
// the last trailing pages.
func NewPDFExtractor(text domain.TextExtractor, counter domain.PageCounter, leading, trailing int, logger *domain.Logger) *PDFExtractor {
	return &PDFExtractor{
		text:     text,
		counter:  counter,
		leading:  leading,
		trailing: trailing,
		logger:   logger,
		marked:   match.New(match.MarkerPDF, match.WithFoldCase()),
		bare:     match.New(match.MarkerNone, match.WithFoldCase()),
		anyWord:  match.New(match.MarkerAnyWord, match.WithFoldCase()),
	}
}

// Regions returns the page ranges scanned for a document with pageCount
// pages. A pageCount below one means the count is unknown and only the
// leading range is used.
func (p *PDFExtractor) Regions(pageCount int) []domain.PageRange {
	regions := []domain.PageRange{domain.LeadingRange(p.leading)}
	if pageCount > 0 {
		regions = append(regions, domain.TrailingRange(pageCount, p.trailing))
	}
	return regions
}

// Text returns the front region text followed by the back region text.
// A failing page count or region only narrows the search; cancellation of
// ctx is returned as is.
func (p *PDFExtractor) Text(ctx context.Context, path string) (string, error) {
	count, err := p.counter.PageCount(path)
	if err != nil {
		p.logger.Warn("Cannot read (or get number of pages in) file: %s: %v", path, err)
		count = 0
	}

	var text strings.Builder
	for _, r := range p.Regions(count) {
		chunk, err := p.text.Text(ctx, path, r)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			p.logger.Warn("Failed to extract pages %s: %v", r, err)
			continue
		}
		p.logger.Debug("Extracted %d bytes from pages %s", len(chunk), r)
		text.WriteString(chunk)
	}

	return norm.NFKC.String(text.String()), nil
}

// Extract returns the ISBN of the document, or the zero ISBN.
func (p *PDFExtractor) Extract(ctx context.Context, path string) (isbn.ISBN, error) {
	text, err := p.Text(ctx, path)
	if err != nil {
		return isbn.ISBN{}, err
	}
	return p.SelectFromText(text), nil
}

// ExtractAll returns every marked ISBN of the document in order.
func (p *PDFExtractor) ExtractAll(ctx context.Context, path string) ([]isbn.ISBN, error) {
	text, err := p.Text(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.SelectAllFromText(text), nil
}

// SelectFromText applies the default policy to already extracted text:
// runs marked "(PDF)" when there are any, bare runs otherwise, last valid
// one wins. Marked runs that all fail validation do not trigger the
// fallback.
func (p *PDFExtractor) SelectFromText(text string) isbn.ISBN {
	candidates := p.marked.Find(text)
	if len(candidates) == 0 {
		p.logger.Debug("No (PDF) marked ISBN, falling back to bare digit runs")
		candidates = p.bare.Find(text)
	}
	return selection.One(selection.Last, selection.Validated(slices.Values(candidates), p.logger))
}

// SelectAllFromText returns every valid run followed by any parenthesised
// word, e.g. "(PDF)", "(ebook)" or "(nid.)".
func (p *PDFExtractor) SelectAllFromText(text string) []isbn.ISBN {
	return selection.Apply(selection.All, selection.Validated(p.anyWord.Scan(text), p.logger))
}
