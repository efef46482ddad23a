package extract

import (
	"path/filepath"

	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/isbn"
	"github.com/spherical/isbn-sniffer/internal/match"
	"github.com/spherical/isbn-sniffer/internal/selection"
)

// FilenameExtractor looks for an ISBN in a file's base name. The last
// valid run wins because prefixes tend to carry unrelated numeric IDs.
type FilenameExtractor struct {
	matcher   *match.Matcher
	cropWidth int
	logger    *domain.Logger
}

// NewFilenameExtractor creates a filename extractor. cropWidth is the
// number of leading characters dropped when cropping is requested.
func NewFilenameExtractor(cropWidth int, logger *domain.Logger) *FilenameExtractor {
	return &FilenameExtractor{
		matcher:   match.New(match.MarkerNone),
		cropWidth: cropWidth,
		logger:    logger,
	}
}

// Extract scans the base name of path. With crop set, the first cropWidth
// characters (a timestamp prefix) are skipped.
func (f *FilenameExtractor) Extract(path string, crop bool) isbn.ISBN {
	name := filepath.Base(path)
	if crop {
		name = dropRunes(name, f.cropWidth)
	}
	f.logger.Debug("Scanning filename %q", name)

	return selection.One(selection.Last, selection.Validated(f.matcher.Scan(name), f.logger))
}

func dropRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}
