package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/paths"
)

// Indexes a directory as a local package channel.
//
// The index is a plain JSON file listing every package archive in the
// directory with its size and digest, enough for the trivial resolver to
// see previously built packages. Indexing an empty or missing directory
// produces an empty index, not an error.
type JSONIndexer struct{}

// One indexed package archive.
type indexEntry struct {
	FileName string        `json:"file_name"`
	Size     int64         `json:"size"`
	Digest   digest.Digest `json:"digest"`
}

// The on-disk index document.
type channelIndex struct {
	Platform metadata.Platform `json:"platform"`
	Packages []indexEntry      `json:"packages"`
}

// Writes an up-to-date index.json into the output directory.
func (JSONIndexer) Index(ctx context.Context, outputDir string, platform metadata.Platform) error {
	if err := os.MkdirAll(outputDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrIndex, err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIndex, err)
	}

	index := channelIndex{Platform: platform, Packages: []indexEntry{}}

	for _, entry := range entries {
		if entry.IsDir() || !isPackageArchive(entry.Name()) {
			continue
		}

		path := filepath.Join(outputDir, entry.Name())
		dgst, size, err := digestFile(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrIndex, entry.Name(), err)
		}

		index.Packages = append(index.Packages, indexEntry{
			FileName: entry.Name(),
			Size:     size,
			Digest:   dgst,
		})
	}

	sort.Slice(index.Packages, func(i, j int) bool {
		return index.Packages[i].FileName < index.Packages[j].FileName
	})

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIndex, err)
	}

	if err := os.WriteFile(filepath.Join(outputDir, "index.json"), data, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrIndex, err)
	}
	return nil
}

// Returns true for file names with a package archive extension.
func isPackageArchive(name string) bool {
	return strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tar.bz2")
}

// Computes the digest and size of a file.
func digestFile(path string) (digest.Digest, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", 0, err
	}

	dgst, err := digest.FromReader(f)
	if err != nil {
		return "", 0, err
	}
	return dgst, info.Size(), nil
}
