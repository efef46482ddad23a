// Package epub unpacks EPUB containers and locates their package documents.
package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/isbn-sniffer/internal/domain"
)

var (
	// ErrNotArchive means the file could not be read as a zip container.
	ErrNotArchive = errors.New("not a zip archive")
	// ErrUnsafePath means an entry would be written outside the target
	// directory.
	ErrUnsafePath = errors.New("archive entry escapes target directory")
)

// ZipUnpacker implements domain.Unpacker for zip-based containers
type ZipUnpacker struct{}

// NewZipUnpacker creates a new unpacker
func NewZipUnpacker() *ZipUnpacker {
	return &ZipUnpacker{}
}

// Unpack extracts every entry of the archive into dir. Failures are
// returned as *domain.DomainError wrapping ErrNotArchive, ErrUnsafePath or
// the underlying IO error.
func (u *ZipUnpacker) Unpack(archivePath, dir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		if errors.Is(err, zip.ErrInsecurePath) {
			if r != nil {
				r.Close()
			}
			return domain.ArchiveError(fmt.Sprintf("cannot read %s", archivePath), ErrUnsafePath)
		}
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return domain.IOError(fmt.Sprintf("cannot open %s", archivePath), err)
		}
		return domain.ArchiveError(fmt.Sprintf("cannot read %s", archivePath), fmt.Errorf("%w: %v", ErrNotArchive, err))
	}
	defer r.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return domain.IOError("cannot resolve scratch directory", err)
	}

	for _, f := range r.File {
		if err := extractEntry(f, root); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, root string) error {
	target := filepath.Join(root, filepath.FromSlash(f.Name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return domain.ArchiveError(fmt.Sprintf("refusing entry %q", f.Name), ErrUnsafePath)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return domain.IOError(fmt.Sprintf("cannot create %s", target), err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return domain.IOError(fmt.Sprintf("cannot create %s", filepath.Dir(target)), err)
	}

	rc, err := f.Open()
	if err != nil {
		return domain.ArchiveError(fmt.Sprintf("cannot open entry %q", f.Name), fmt.Errorf("%w: %v", ErrNotArchive, err))
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return domain.IOError(fmt.Sprintf("cannot create %s", target), err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return domain.ArchiveError(fmt.Sprintf("cannot extract entry %q", f.Name), fmt.Errorf("%w: %v", ErrNotArchive, err))
	}
	if err := out.Close(); err != nil {
		return domain.IOError(fmt.Sprintf("cannot write %s", target), err)
	}
	return nil
}

// Scratch is a temporary directory owned by one extraction
type Scratch struct {
	Dir string
}

// NewScratch creates a fresh directory under parent. An empty parent uses
// the system temp directory; a missing parent is created.
func NewScratch(parent string) (*Scratch, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, domain.IOError("cannot create scratch parent", err)
		}
	}
	dir, err := os.MkdirTemp(parent, "epub-unpack-*")
	if err != nil {
		return nil, domain.IOError("cannot create scratch directory", err)
	}
	return &Scratch{Dir: dir}, nil
}

// Cleanup removes the scratch directory and everything in it
func (s *Scratch) Cleanup() error {
	if s == nil || s.Dir == "" {
		return nil
	}
	err := os.RemoveAll(s.Dir)
	s.Dir = ""
	return err
}

// FindPackageDocuments returns every *.opf file below root in walk order
// (lexical, directories before their contents).
func FindPackageDocuments(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".opf") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, domain.IOError("cannot walk unpacked archive", err)
	}
	return found, nil
}
