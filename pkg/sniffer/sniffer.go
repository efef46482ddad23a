// Package sniffer is the library entry point: it finds the ISBN of a PDF or
// EPUB file from its name, its EPUB metadata or its front and back pages.
package sniffer

import (
	"context"

	"github.com/spherical/isbn-sniffer/internal/config"
	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/epub"
	"github.com/spherical/isbn-sniffer/internal/extract"
	"github.com/spherical/isbn-sniffer/internal/pdf"
)

// Re-export result types for the public API
type (
	Config  = config.Config
	Options = extract.Options
	Result  = extract.Result
	Entry   = extract.Entry
	Logger  = domain.Logger
)

// Labels of all-matches entries
const (
	LabelFilename = extract.LabelFilename
	LabelEPUB     = extract.LabelEPUB
	LabelPDF      = extract.LabelPDF
)

// ErrNotFound is returned by Lookup when no ISBN was found
var ErrNotFound = extract.ErrNotFound

// Client looks up ISBNs of book files
type Client struct {
	service *extract.Service
	logger  *domain.Logger
}

// NewClient creates a client from the environment (and a .env file when
// present)
func NewClient() (*Client, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg, cfg.Log.Logger(""))
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// NewClientWithConfig creates a client with explicit settings. A nil logger
// discards diagnostics. The configured range file replaces the hyphenation
// table process-wide.
func NewClientWithConfig(cfg *Config, logger *Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ISBN.UseRanges(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = domain.NopLogger()
	}

	backend, err := pdf.NewBackend(cfg.PDF.Backend, cfg.PDF.PdftotextPath, logger)
	if err != nil {
		return nil, err
	}

	settings := extract.Settings{
		LeadingPages:  cfg.PDF.LeadingPages,
		TrailingPages: cfg.PDF.TrailingPages,
		CropWidth:     cfg.Filename.CropWidth,
		ScratchDir:    cfg.EPUB.ScratchDir,
	}

	return &Client{
		service: extract.NewService(backend, epub.NewZipUnpacker(), settings, logger),
		logger:  logger,
	}, nil
}

// Sniff runs one lookup with the given options
func (c *Client) Sniff(ctx context.Context, path string, opts Options) (*Result, error) {
	return c.service.Sniff(ctx, path, opts)
}

// Lookup returns the display form of the file's ISBN, checking the filename
// first
func (c *Client) Lookup(ctx context.Context, path string) (string, error) {
	res, err := c.service.Sniff(ctx, path, Options{CompareFilename: true})
	if err != nil {
		return "", err
	}
	if !res.Found() {
		return "", ErrNotFound
	}
	return res.ISBN.String(), nil
}
