package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/spherical/isbn-sniffer/internal/domain"
)

// Backend names accepted by NewBackend
const (
	BackendFitz      = "fitz"
	BackendPdftotext = "pdftotext"
	BackendPure      = "pure"
)

// Backends lists every supported backend name
var Backends = []string{BackendFitz, BackendPdftotext, BackendPure}

// composite pairs a text extractor with a separate page counter
type composite struct {
	domain.TextExtractor
	domain.PageCounter
}

// Compose builds a domain.PDFBackend from independent capabilities
func Compose(text domain.TextExtractor, counter domain.PageCounter) domain.PDFBackend {
	return composite{TextExtractor: text, PageCounter: counter}
}

// NewBackend returns the named backend. pdftotextPath is only used by the
// pdftotext backend. logger receives skipped-page warnings; nil means
// domain.DefaultLogger.
func NewBackend(name, pdftotextPath string, logger *domain.Logger) (domain.PDFBackend, error) {
	if logger == nil {
		logger = domain.DefaultLogger
	}
	switch name {
	case BackendFitz, "":
		return NewFitzBackend(logger), nil
	case BackendPdftotext:
		return Compose(NewPopplerExtractor(pdftotextPath), NewPdfcpuCounter()), nil
	case BackendPure:
		return Compose(NewPureExtractor(logger), NewPdfcpuCounter()), nil
	default:
		return nil, domain.ConfigError(fmt.Sprintf("unknown PDF backend %q (want one of %v)", name, Backends), nil)
	}
}

// pageTexts joins the text of every page in r, one page per line block. A
// page whose text cannot be read is logged and skipped.
func pageTexts(ctx context.Context, r domain.PageRange, logger *domain.Logger, page func(n int) (string, error)) (string, error) {
	var text strings.Builder
	for n := r.First; n <= r.Last; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := page(n)
		if err != nil {
			logger.Warn("Skipping page %d: %v", n, err)
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), nil
}
