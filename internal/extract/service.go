package extract

import (
	"context"
	"errors"

	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/isbn"
	"github.com/spherical/isbn-sniffer/internal/pdf"
)

// ErrNotFound is returned by callers that need an error when a lookup
// produced no ISBN.
var ErrNotFound = errors.New("did not find ISBN")

// Labels used in all-matches results
const (
	LabelFilename = "Filename ISBN"
	LabelEPUB     = "EPUB ISBN"
	LabelPDF      = "PDF ISBNs"
)

// Source tells where a single result came from
type Source string

const (
	SourceNone     Source = ""
	SourceFilename Source = "filename"
	SourceEPUB     Source = "epub"
	SourcePDF      Source = "pdf"
)

// Options are the per-lookup switches
type Options struct {
	CompareFilename bool // look in the filename first
	CropTimestamp   bool // drop the timestamp prefix of the filename
	ReturnAll       bool // report every match, labelled by source
}

// Entry is one labelled value of an all-matches result
type Entry struct {
	Label string
	ISBNs []isbn.ISBN
	Multi bool // the label names a sequence rather than a single value
}

// Result is the outcome of one lookup
type Result struct {
	Path     string
	FileType domain.FileType

	// Single-result mode
	ISBN   isbn.ISBN
	Source Source

	// All-matches mode
	All     bool
	Entries []Entry
}

// Found reports whether the lookup produced at least one ISBN
func (r *Result) Found() bool {
	if r == nil {
		return false
	}
	if !r.All {
		return !r.ISBN.IsZero()
	}
	for _, e := range r.Entries {
		if len(e.ISBNs) > 0 {
			return true
		}
	}
	return false
}

// Settings tunes the extractors
type Settings struct {
	LeadingPages  int
	TrailingPages int
	CropWidth     int
	ScratchDir    string
}

// DefaultSettings returns the standard search regions and crop width
func DefaultSettings() Settings {
	return Settings{
		LeadingPages:  domain.LeadingPages,
		TrailingPages: domain.TrailingPages,
		CropWidth:     10,
	}
}

// Service orchestrates the extractors for one file at a time
type Service struct {
	filename  *FilenameExtractor
	epub      *EPUBExtractor
	pdf       *PDFExtractor
	validator *pdf.Validator
	logger    *domain.Logger
}

// NewService creates a new lookup service
func NewService(backend domain.PDFBackend, unpacker domain.Unpacker, settings Settings, logger *domain.Logger) *Service {
	if logger == nil {
		logger = domain.DefaultLogger
	}
	logger = logger.WithPrefix("extract")

	return &Service{
		filename:  NewFilenameExtractor(settings.CropWidth, logger),
		epub:      NewEPUBExtractor(unpacker, settings.ScratchDir, logger),
		pdf:       NewPDFExtractor(backend, backend, settings.LeadingPages, settings.TrailingPages, logger),
		validator: pdf.NewValidator(),
		logger:    logger,
	}
}

// Sniff looks up the ISBN of the file at path. Unsupported extensions and
// unreadable paths are returned as errors; extractor failures are logged
// and only mean "no result from that extractor".
func (s *Service) Sniff(ctx context.Context, path string, opts Options) (*Result, error) {
	fileType, err := domain.DetectFileType(path)
	if err != nil {
		return nil, err
	}
	log := s.logger.WithFile(path)
	result := &Result{Path: path, FileType: fileType, All: opts.ReturnAll}

	var fromName isbn.ISBN
	if opts.CompareFilename {
		fromName = s.filename.Extract(path, opts.CropTimestamp)
		if !fromName.IsZero() {
			log.Info("Found ISBN %s in filename", fromName)
		}
	}

	if opts.ReturnAll {
		if !fromName.IsZero() {
			result.Entries = append(result.Entries, Entry{Label: LabelFilename, ISBNs: []isbn.ISBN{fromName}})
		}
		if err := s.validator.ValidateInputPath(path); err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, s.containerEntry(ctx, log, path, fileType))
		return result, nil
	}

	if !fromName.IsZero() {
		result.ISBN, result.Source = fromName, SourceFilename
		return result, nil
	}

	if err := s.validator.ValidateInputPath(path); err != nil {
		return nil, err
	}

	switch fileType {
	case domain.FileTypeEPUB:
		result.ISBN = s.sniffEPUB(log, path)
		result.Source = SourceEPUB
	case domain.FileTypePDF:
		v, err := s.pdf.Extract(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("PDF extraction failed: %v", err)
		}
		result.ISBN = v
		result.Source = SourcePDF
	}
	if result.ISBN.IsZero() {
		result.Source = SourceNone
	}
	return result, nil
}

func (s *Service) containerEntry(ctx context.Context, log *domain.Logger, path string, fileType domain.FileType) Entry {
	if fileType == domain.FileTypeEPUB {
		entry := Entry{Label: LabelEPUB}
		if v := s.sniffEPUB(log, path); !v.IsZero() {
			entry.ISBNs = []isbn.ISBN{v}
		}
		return entry
	}

	all, err := s.pdf.ExtractAll(ctx, path)
	if err != nil {
		log.Warn("PDF extraction failed: %v", err)
	}
	return Entry{Label: LabelPDF, ISBNs: all, Multi: true}
}

func (s *Service) sniffEPUB(log *domain.Logger, path string) isbn.ISBN {
	v, err := s.epub.Extract(path)
	if err != nil {
		log.Warn("Error occurred when trying to extract %s: %v", path, err)
	}
	return v
}

