package domain

import "context"

// TextExtractor returns the plain text of an inclusive, 1-based page range
type TextExtractor interface {
	Text(ctx context.Context, path string, pages PageRange) (string, error)
}

// PageCounter reports the number of pages in a document
type PageCounter interface {
	PageCount(path string) (int, error)
}

// PDFBackend bundles both PDF capabilities; every backend in internal/pdf
// implements it
type PDFBackend interface {
	TextExtractor
	PageCounter
}

// Unpacker extracts every entry of an archive into dir
type Unpacker interface {
	Unpack(archivePath, dir string) error
}
