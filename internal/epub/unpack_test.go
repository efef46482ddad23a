package epub

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/isbn-sniffer/internal/domain"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestUnpack(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "book.epub")
	writeZip(t, archive, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": "<container/>",
		"OEBPS/content.opf":      "<package/>",
		"OEBPS/text/ch1.xhtml":   "<html/>",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(dest, 0o755))
	require.NoError(t, NewZipUnpacker().Unpack(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "OEBPS", "content.opf"))
	require.NoError(t, err)
	assert.Equal(t, "<package/>", string(data))
}

func TestUnpack_NotArchive(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "broken.epub")
	require.NoError(t, os.WriteFile(bogus, []byte("definitely not a zip"), 0o644))

	err := NewZipUnpacker().Unpack(bogus, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotArchive)
	assert.True(t, domain.IsType(err, domain.ErrorTypeArchive))
}

func TestUnpack_MissingFile(t *testing.T) {
	err := NewZipUnpacker().Unpack(filepath.Join(t.TempDir(), "nope.epub"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, domain.IsType(err, domain.ErrorTypeIO))
}

func TestUnpack_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.epub")
	writeZip(t, archive, map[string]string{"../../escape.opf": "x"})

	dest := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	err := NewZipUnpacker().Unpack(archive, dest)
	assert.ErrorIs(t, err, ErrUnsafePath)
	assert.NoFileExists(t, filepath.Join(dir, "escape.opf"))
}

func TestScratch(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "missing", "parent")
	s, err := NewScratch(parent)
	require.NoError(t, err)
	assert.DirExists(t, s.Dir)

	dir := s.Dir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o644))
	require.NoError(t, s.Cleanup())
	assert.NoDirExists(t, dir)
	require.NoError(t, s.Cleanup())
}

func TestFindPackageDocuments(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b/second.OPF", "a/first.opf", "a/notes.txt", "c.opf.bak"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	got, err := FindPackageDocuments(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "first.opf"),
		filepath.Join(root, "b", "second.OPF"),
	}, got)
}
