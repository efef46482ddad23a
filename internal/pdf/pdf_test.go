package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/isbn-sniffer/internal/domain"
)

func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "pdftotext")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestPopplerExtractor_Args(t *testing.T) {
	tool := fakeTool(t, `echo "$@"`)

	got, err := NewPopplerExtractor(tool).Text(context.Background(), "book.pdf", domain.PageRange{First: 7, Last: 10})
	require.NoError(t, err)
	assert.Equal(t, "-q -f 7 -l 10 book.pdf -\n", got)
}

func TestPopplerExtractor_ClampsFirstPage(t *testing.T) {
	tool := fakeTool(t, `echo "$@"`)

	got, err := NewPopplerExtractor(tool).Text(context.Background(), "b.pdf", domain.PageRange{First: -2, Last: 3})
	require.NoError(t, err)
	assert.Equal(t, "-q -f 1 -l 3 b.pdf -\n", got)
}

func TestPopplerExtractor_EmptyRange(t *testing.T) {
	got, err := NewPopplerExtractor("/nonexistent/pdftotext").Text(context.Background(), "b.pdf", domain.PageRange{First: 5, Last: 0})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPopplerExtractor_Failure(t *testing.T) {
	tool := fakeTool(t, `echo "Syntax Error: broken" >&2; exit 1`)

	_, err := NewPopplerExtractor(tool).Text(context.Background(), "b.pdf", domain.LeadingRange(6))
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConversion))
	assert.Contains(t, err.Error(), "Syntax Error: broken")
}

func TestNewBackend(t *testing.T) {
	for _, name := range append([]string{""}, Backends...) {
		b, err := NewBackend(name, "", nil)
		require.NoError(t, err, name)
		assert.NotNil(t, b)
	}

	_, err := NewBackend("ocr", "", domain.NopLogger())
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
}

func TestPdfcpuCounter_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := NewPdfcpuCounter().PageCount(path)
	assert.Error(t, err)
}
func TestPageTexts_SkipsFailingPage(t *testing.T) {
	got, err := pageTexts(context.Background(), domain.PageRange{First: 1, Last: 3}, domain.NopLogger(), func(n int) (string, error) {
		if n == 2 {
			return "", errors.New("broken content stream")
		}
		return fmt.Sprintf("page %d", n), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "page 1\npage 3\n", got)
}

func TestPageTexts_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := pageTexts(ctx, domain.PageRange{First: 1, Last: 5}, domain.NopLogger(), func(n int) (string, error) {
		calls++
		cancel()
		return "", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestValidator_ValidateInputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "book.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o644))

	v := NewValidator()
	assert.NoError(t, v.ValidateInputPath(file))

	for name, path := range map[string]string{
		"empty":     "  ",
		"missing":   filepath.Join(dir, "missing.pdf"),
		"directory": dir,
		"device":    os.DevNull,
	} {
		t.Run(name, func(t *testing.T) {
			err := v.ValidateInputPath(path)
			require.Error(t, err)
			assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
		})
	}
}
