package pdf

import (
	"context"

	"github.com/gen2brain/go-fitz"
	"github.com/spherical/isbn-sniffer/internal/domain"
)

// FitzBackend implements page text extraction and page counting using
// go-fitz (MuPDF)
type FitzBackend struct {
	logger *domain.Logger
}

// NewFitzBackend creates a new go-fitz backend
func NewFitzBackend(logger *domain.Logger) *FitzBackend {
	return &FitzBackend{logger: logger}
}

// PageCount returns the number of pages in the document
func (b *FitzBackend) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, domain.ConversionError("Failed to open PDF", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

// Text returns the plain text of the pages in r, in page order. Unreadable
// pages are skipped
func (b *FitzBackend) Text(ctx context.Context, path string, r domain.PageRange) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", domain.ConversionError("Failed to open PDF", err)
	}
	defer doc.Close()

	r = r.Clamp(doc.NumPage())
	if r.Empty() {
		return "", nil
	}

	// go-fitz pages are zero-based
	return pageTexts(ctx, r, b.logger, func(n int) (string, error) {
		return doc.Text(n - 1)
	})
}
