// Package tarball extracts gzip-compressed tar archives into a destination
// directory. Entry names are validated so an archive cannot write outside
// the destination.
package tarball

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/neuralkit/ephys/internal/log"
)

// Extractor unpacks .tar.gz archives.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract unpacks the archive at archivePath into destDir, creating
// directories as needed. Entries other than directories and regular files
// are skipped.
func (e *Extractor) Extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip %s: %w", archivePath, err)
	}
	defer gz.Close()

	log.Debug(log.CatExtract, "extracting archive", "archive", archivePath, "dest", destDir)

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar %s: %w", archivePath, err)
		}

		target, err := resolve(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("mkdir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			log.Warn(log.CatExtract, "skipping unsupported entry", "name", hdr.Name, "type", hdr.Typeflag)
		}
	}
}

// resolve joins an entry name onto destDir and rejects names that would
// escape it.
func resolve(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes destination directory", name)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(target), err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // G110: archives are user-selected local datasets
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}
