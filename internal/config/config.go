// Package config loads isbn-sniffer settings from defaults, an optional
// YAML file, a .env file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/isbn"
	"github.com/spherical/isbn-sniffer/internal/pdf"
)

// Config holds all configuration for the sniffer.
type Config struct {
	PDF      PDFConfig      `yaml:"pdf"`
	EPUB     EPUBConfig     `yaml:"epub"`
	Filename FilenameConfig `yaml:"filename"`
	ISBN     ISBNConfig     `yaml:"isbn"`
	Log      LogConfig      `yaml:"log"`
}

// PDFConfig selects the text backend and the search regions.
type PDFConfig struct {
	Backend       string `yaml:"backend"` // fitz, pdftotext or pure
	PdftotextPath string `yaml:"pdftotext_path"`
	LeadingPages  int    `yaml:"leading_pages"`
	TrailingPages int    `yaml:"trailing_pages"`
}

// EPUBConfig holds archive unpacking settings.
type EPUBConfig struct {
	ScratchDir string `yaml:"scratch_dir"` // empty means os.TempDir()
}

// FilenameConfig holds filename scanning settings.
type FilenameConfig struct {
	CropWidth int `yaml:"crop_width"` // characters dropped by --crop
}

// ISBNConfig points at a newer agency range message than the built-in one.
type ISBNConfig struct {
	RangeFile string `yaml:"range_file"` // RangeMessage.xml; empty uses the embedded table
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		PDF: PDFConfig{
			Backend:       pdf.BackendFitz,
			PdftotextPath: pdf.DefaultPdftotextPath,
			LeadingPages:  domain.LeadingPages,
			TrailingPages: domain.TrailingPages,
		},
		Filename: FilenameConfig{
			CropWidth: 10,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load builds a Config. path may be empty; a missing .env file is ignored.
// The result is not validated: callers apply their own overrides first and
// then call Validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError(fmt.Sprintf("cannot read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError(fmt.Sprintf("cannot parse config file %s", path), err)
		}
	}

	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !slices.Contains(pdf.Backends, c.PDF.Backend) {
		return domain.ConfigError(fmt.Sprintf("pdf.backend must be one of %v, got %q", pdf.Backends, c.PDF.Backend), nil)
	}
	if c.PDF.LeadingPages < 1 {
		return domain.ConfigError("pdf.leading_pages must be positive", nil)
	}
	if c.PDF.TrailingPages < 1 {
		return domain.ConfigError("pdf.trailing_pages must be positive", nil)
	}
	if c.Filename.CropWidth < 0 {
		return domain.ConfigError("filename.crop_width cannot be negative", nil)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return domain.ConfigError(fmt.Sprintf("log.format must be console or json, got %q", c.Log.Format), nil)
	}
	return nil
}

// UseRanges installs the configured range message for hyphenation. Without
// a range file the embedded table is used.
func (c ISBNConfig) UseRanges() error {
	if c.RangeFile == "" {
		isbn.UseRanges(nil)
		return nil
	}
	table, err := isbn.LoadRangeFile(c.RangeFile)
	if err != nil {
		return domain.ConfigError(fmt.Sprintf("cannot load isbn.range_file %s", c.RangeFile), err)
	}
	isbn.UseRanges(table)
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ISBN_SNIFFER_BACKEND"); v != "" {
		cfg.PDF.Backend = v
	}
	if v := os.Getenv("PDFTOTEXT_PATH"); v != "" {
		cfg.PDF.PdftotextPath = v
	}
	if v := os.Getenv("ISBN_SNIFFER_SCRATCH_DIR"); v != "" {
		cfg.EPUB.ScratchDir = v
	}
	if v := os.Getenv("ISBN_SNIFFER_RANGE_FILE"); v != "" {
		cfg.ISBN.RangeFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"ISBN_SNIFFER_LEADING_PAGES", &cfg.PDF.LeadingPages},
		{"ISBN_SNIFFER_TRAILING_PAGES", &cfg.PDF.TrailingPages},
		{"ISBN_SNIFFER_CROP_WIDTH", &cfg.Filename.CropWidth},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigError(fmt.Sprintf("%s must be an integer", e.key), err)
		}
		*e.dst = n
	}
	return nil
}

// Logger builds the logger described by the log settings.
func (l LogConfig) Logger(runID string) *domain.Logger {
	return domain.NewLoggerWithOptions(domain.LogOptions{
		Level:  domain.ParseLogLevel(l.Level),
		Format: l.Format,
		RunID:  runID,
	})
}
