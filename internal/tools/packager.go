package tools

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/paths"
)

// Packages the new-files set from the host prefix into a gzipped tarball
// in the output directory.
//
// All entries are placed under a single "<name>-<version>" top-level
// directory, the same single-wrapper convention the archive extractor
// strips on the way back in. Permission bits are preserved; symlinks are
// archived as links.
type TarPackager struct{}

// Writes the package archive and returns its path and the manifest of
// packaged relative paths.
func (TarPackager) Package(ctx context.Context, unit *metadata.Unit, newFiles []string, hostPrefix, outputDir string, format metadata.PackageFormat) (string, []string, error) {
	if format != metadata.FormatTarGz {
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := os.MkdirAll(outputDir, paths.DefaultDirMode); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrPackage, err)
	}

	name := fmt.Sprintf("%s-%s", unit.Recipe.Name, unit.Recipe.Version)
	archive := filepath.Join(outputDir, name+".tar.gz")

	f, err := os.Create(archive)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrPackage, err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	for _, rel := range newFiles {
		if err := writeTarEntry(tw, filepath.Join(hostPrefix, rel), filepath.ToSlash(filepath.Join(name, rel))); err != nil {
			return "", nil, fmt.Errorf("%w: %s: %w", ErrPackage, rel, err)
		}
	}

	if err := tw.Close(); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrPackage, err)
	}
	if err := gw.Close(); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrPackage, err)
	}
	if err := f.Close(); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrPackage, err)
	}

	manifest := append([]string(nil), newFiles...)
	return archive, manifest, nil
}

// Writes a single file or symlink entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string) error {
	info, err := os.Lstat(hostPath)
	if err != nil {
		return err
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(hostPath); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = archivePath

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}
