package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/isbn-sniffer/internal/domain"
)

func TestDescribe(t *testing.T) {
	_, err := domain.DetectFileType("notes.txt")
	assert.Equal(t, "Cannot handle other than PDF and EPUB files: notes.txt", describe(err))

	err = domain.ValidationError("file does not exist: a.pdf", errors.New("stat a.pdf: no such file"))
	assert.Equal(t, "file does not exist: a.pdf: stat a.pdf: no such file", describe(err))

	assert.Equal(t, "plain", describe(errors.New("plain")))
}

func writeEPUB(t *testing.T, opf string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("content.opf")
	require.NoError(t, err)
	_, err = w.Write([]byte(opf))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// resetFlags restores the package-level flag variables after a test.
func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		compareFilename, cropTimestamp, returnAll = false, false, false
		outputFormat, backendName, cfgFile = "text", "", ""
		verbose = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
}

func TestRun_EPUB(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISBN_SNIFFER_SCRATCH_DIR", t.TempDir())
	resetFlags(t)
	path := writeEPUB(t, "<dc:identifier>urn:isbn:9780306406157</dc:identifier>")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--no-color", path})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "978-0-306-40615-7\n", out.String())
}

func TestRun_AllWithoutMatch(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISBN_SNIFFER_SCRATCH_DIR", t.TempDir())
	resetFlags(t)
	path := writeEPUB(t, "<package><metadata/></package>")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--no-color", "--all", path})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "EPUB ISBN: none\n", out.String())
}

func TestRun_AllWithoutMatchJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISBN_SNIFFER_SCRATCH_DIR", t.TempDir())
	resetFlags(t)
	path := writeEPUB(t, "<package><metadata/></package>")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--no-color", "--all", "-c", "-o", "json", path})

	require.NoError(t, rootCmd.Execute())
	assert.NotContains(t, out.String(), `"label": "Filename ISBN"`)
	assert.Contains(t, out.String(), `"label": "EPUB ISBN"`)
	assert.Contains(t, out.String(), `"found": false`)
	assert.Contains(t, out.String(), `"isbns": []`)
}

func TestRun_BackendFlagOverridesEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISBN_SNIFFER_SCRATCH_DIR", t.TempDir())
	t.Setenv("ISBN_SNIFFER_BACKEND", "bogus")
	resetFlags(t)
	path := writeEPUB(t, "<dc:identifier>urn:isbn:9783161484100</dc:identifier>")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--no-color", "--backend", "pure", path})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "978-3-16-148410-0\n", out.String())
}

func TestRun_InvalidBackendFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISBN_SNIFFER_BACKEND", "bogus")
	resetFlags(t)

	rootCmd.SetArgs([]string{"--no-color", "book.epub"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
}

func TestRun_Unsupported(t *testing.T) {
	t.Chdir(t.TempDir())
	resetFlags(t)
	rootCmd.SetArgs([]string{"--no-color", "notes.txt"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeUnsupported))
}
