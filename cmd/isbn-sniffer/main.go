// Package main provides the isbn-sniffer command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spherical/isbn-sniffer/internal/config"
	"github.com/spherical/isbn-sniffer/internal/domain"
	"github.com/spherical/isbn-sniffer/internal/epub"
	"github.com/spherical/isbn-sniffer/internal/extract"
	"github.com/spherical/isbn-sniffer/internal/pdf"
	"github.com/spherical/isbn-sniffer/internal/report"
)

const version = "1.0.0"

var (
	// Lookup flags
	compareFilename bool
	cropTimestamp   bool
	returnAll       bool

	// Global flags
	outputFormat string
	backendName  string
	cfgFile      string
	verbose      bool
	noColor      bool
)

// errNotFound makes the command exit 1 after the diagnostic was printed.
var errNotFound = errors.New("not found")

var rootCmd = &cobra.Command{
	Use:   "isbn-sniffer [flags] <file>",
	Short: "Find the ISBN of a PDF or EPUB file",
	Long: `isbn-sniffer prints the ISBN of a PDF or EPUB book.

The filename is checked first when -c is given. EPUB files are searched in
their package metadata; PDF files in their first 6 and last 4 pages, where
"ISBN ... (PDF)" lines are preferred over other ISBNs.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&compareFilename, "compare", "c", false, "extract the ISBN from the filename first")
	rootCmd.Flags().BoolVar(&cropTimestamp, "crop", false, "drop the timestamp prefix of the filename (with -c)")
	rootCmd.Flags().BoolVar(&returnAll, "all", false, "return all matches, labelled by source")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.Flags().StringVar(&backendName, "backend", "", "PDF text backend: fitz, pdftotext or pure (default from config)")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path (default: uses env vars)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errNotFound) {
			newUI(noColor).Error("%s", describe(err))
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	ui := newUI(noColor)

	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if backendName != "" {
		cfg.PDF.Backend = backendName
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ISBN.UseRanges(); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := cfg.Log.Logger(runID)
	logger.Debug("isbn-sniffer %s, backend %s", version, cfg.PDF.Backend)

	backend, err := pdf.NewBackend(cfg.PDF.Backend, cfg.PDF.PdftotextPath, logger)
	if err != nil {
		return err
	}
	service := extract.NewService(backend, epub.NewZipUnpacker(), extract.Settings{
		LeadingPages:  cfg.PDF.LeadingPages,
		TrailingPages: cfg.PDF.TrailingPages,
		CropWidth:     cfg.Filename.CropWidth,
		ScratchDir:    cfg.EPUB.ScratchDir,
	}, logger)

	res, err := service.Sniff(cmd.Context(), path, extract.Options{
		CompareFilename: compareFilename,
		CropTimestamp:   cropTimestamp,
		ReturnAll:       returnAll,
	})
	if err != nil {
		return err
	}

	// --all always reports every entry, matched or not.
	if res.All || res.Found() || format != report.FormatText {
		if err := report.Render(cmd.OutOrStdout(), format, res, runID); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	if res.All {
		return nil
	}
	if !res.Found() {
		ui.Warning("Did not find ISBN for: %s", path)
		return errNotFound
	}
	return nil
}

// describe returns the user-facing text of err. Unsupported input keeps
// the bare message, other domain errors keep their cause.
func describe(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		if de.Type == domain.ErrorTypeUnsupported || de.Err == nil {
			return de.Message
		}
		return fmt.Sprintf("%s: %v", de.Message, de.Err)
	}
	return err.Error()
}
