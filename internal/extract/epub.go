package extract

import (
	"os"
	"slices"
	"strings"

	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/epub"
	"github.com/spherical/isbn-sniffer/internal/isbn"
	"github.com/spherical/isbn-sniffer/internal/match"
	"github.com/spherical/isbn-sniffer/internal/selection"
)

var newlines = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// EPUBExtractor reads the ISBN from an EPUB's package document. Only the
// metadata is searched, never the rendered book content.
type EPUBExtractor struct {
	unpacker   domain.Unpacker
	scratchDir string
	matcher    *match.Matcher
	logger     *domain.Logger
}

// NewEPUBExtractor creates an EPUB extractor that unpacks archives below
// scratchDir (empty means the system temp directory).
func NewEPUBExtractor(unpacker domain.Unpacker, scratchDir string, logger *domain.Logger) *EPUBExtractor {
	return &EPUBExtractor{
		unpacker:   unpacker,
		scratchDir: scratchDir,
		matcher:    match.New(match.MarkerNone),
		logger:     logger,
	}
}

// Extract unpacks path into a private scratch directory, scans the package
// documents and returns the first valid ISBN. When the archive holds
// several .opf files only the last one walked is used. The scratch
// directory is removed before returning, on every path.
func (e *EPUBExtractor) Extract(path string) (isbn.ISBN, error) {
	scratch, err := epub.NewScratch(e.scratchDir)
	if err != nil {
		return isbn.ISBN{}, err
	}
	defer func() {
		if err := scratch.Cleanup(); err != nil {
			e.logger.Warn("Failed to remove scratch directory: %v", err)
		}
	}()

	if err := e.unpacker.Unpack(path, scratch.Dir); err != nil {
		return isbn.ISBN{}, err
	}

	docs, err := epub.FindPackageDocuments(scratch.Dir)
	if err != nil {
		return isbn.ISBN{}, err
	}
	if len(docs) == 0 {
		e.logger.Debug("No package document in %s", path)
		return isbn.ISBN{}, nil
	}

	var candidates []match.Candidate
	for _, doc := range docs {
		data, err := os.ReadFile(doc)
		if err != nil {
			e.logger.Warn("Cannot read package document %s: %v", doc, err)
			continue
		}
		candidates = e.matcher.Find(newlines.Replace(string(data)))
	}
	if len(docs) > 1 {
		e.logger.Debug("%d package documents found, using the last one", len(docs))
	}

	return selection.One(selection.First, selection.Validated(slices.Values(candidates), e.logger)), nil
}
