package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spherical/isbn-sniffer/internal/domain"
)

// PureExtractor extracts page text with github.com/ledongthuc/pdf, which
// needs neither cgo nor external tools
type PureExtractor struct {
	logger *domain.Logger
}

// NewPureExtractor creates a new pure-Go text extractor
func NewPureExtractor(logger *domain.Logger) *PureExtractor {
	return &PureExtractor{logger: logger}
}

// Text returns the plain text of the pages in r. The parser panics on some
// malformed documents: a panic while opening is returned as a conversion
// error, one on a single page skips that page.
func (e *PureExtractor) Text(ctx context.Context, path string, r domain.PageRange) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", domain.ConversionError("Failed to parse PDF", fmt.Errorf("%v", p))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", domain.ConversionError("Failed to open PDF", err)
	}
	defer f.Close()

	r = r.Clamp(reader.NumPage())
	if r.Empty() {
		return "", nil
	}

	return pageTexts(ctx, r, e.logger, func(n int) (pageText string, err error) {
		defer func() {
			if p := recover(); p != nil {
				pageText, err = "", fmt.Errorf("%v", p)
			}
		}()
		page := reader.Page(n)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
}

// PdfcpuCounter reads the page count with pdfcpu
type PdfcpuCounter struct{}

// NewPdfcpuCounter creates a new pdfcpu page counter
func NewPdfcpuCounter() *PdfcpuCounter {
	return &PdfcpuCounter{}
}

// PageCount returns the number of pages in the document
func (c *PdfcpuCounter) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, domain.ConversionError("Cannot read (or get number of pages in) file", err)
	}
	return n, nil
}
