package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spherical/isbn-sniffer/internal/domain"
)

// DefaultPdftotextPath is where poppler-utils installs pdftotext on most
// Linux distributions
const DefaultPdftotextPath = "/usr/bin/pdftotext"

// PopplerExtractor runs the external pdftotext tool, once per page range
type PopplerExtractor struct {
	binary string
}

// NewPopplerExtractor creates an extractor for the given pdftotext binary.
// An empty binary falls back to DefaultPdftotextPath.
func NewPopplerExtractor(binary string) *PopplerExtractor {
	if binary == "" {
		binary = DefaultPdftotextPath
	}
	return &PopplerExtractor{binary: binary}
}

// Text returns pdftotext's output for the pages in r
func (p *PopplerExtractor) Text(ctx context.Context, path string, r domain.PageRange) (string, error) {
	r = r.Clamp(0)
	if r.Empty() {
		return "", nil
	}

	cmd := exec.CommandContext(ctx, p.binary, p.args(path, r)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "pdftotext failed"
		}
		return "", domain.ConversionError(fmt.Sprintf("%s (pages %s)", msg, r), err)
	}

	return stdout.String(), nil
}

func (p *PopplerExtractor) args(path string, r domain.PageRange) []string {
	return []string{
		"-q",
		"-f", strconv.Itoa(r.First),
		"-l", strconv.Itoa(r.Last),
		path,
		"-",
	}
}
