package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Default search regions for PDF documents
const (
	LeadingPages  = 6
	TrailingPages = 4
)

// FileType identifies the container formats the sniffer understands
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeEPUB FileType = "epub"
)

// DetectFileType maps a path to a FileType using its extension,
// case-insensitively
func DetectFileType(path string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FileTypePDF, nil
	case ".epub":
		return FileTypeEPUB, nil
	default:
		return "", UnsupportedError(fmt.Sprintf("Cannot handle other than PDF and EPUB files: %s", path), nil)
	}
}

// PageRange is an inclusive, 1-based page interval
type PageRange struct {
	First int
	Last  int
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// Empty reports whether the range contains no pages
func (r PageRange) Empty() bool {
	return r.Last < r.First || r.Last < 1
}

// Clamp limits the range to pages 1..count. A count of zero or less leaves
// the upper bound untouched.
func (r PageRange) Clamp(count int) PageRange {
	if r.First < 1 {
		r.First = 1
	}
	if count > 0 && r.Last > count {
		r.Last = count
	}
	return r
}

// LeadingRange returns pages 1..n
func LeadingRange(n int) PageRange {
	return PageRange{First: 1, Last: n}
}

// TrailingRange returns the last n pages of a document with count pages.
// Short documents overlap with the leading range; the overlap is kept.
func TrailingRange(count, n int) PageRange {
	return PageRange{First: count - n + 1, Last: count}.Clamp(count)
}
