package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// A set of relative file paths under a prefix, taken at one point in time.
type fileSnapshot map[string]struct{}

// Enumerates all files under the prefix.
//
// Paths are recorded relative to the prefix and the result is a set, so
// snapshots are order-independent. Directories themselves are not
// recorded; symlinks are recorded without being followed. A prefix that
// does not exist yet yields an empty snapshot.
func recordFiles(prefix string) (fileSnapshot, error) {
	snapshot := make(fileSnapshot)

	err := filepath.WalkDir(prefix, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == prefix && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(prefix, path)
		if err != nil {
			return err
		}
		snapshot[rel] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	return snapshot, nil
}

// Returns the files present in after but not in before, sorted.
//
// Files deleted between the snapshots are not reported, and untouched
// pre-existing files are excluded.
func newFiles(before, after fileSnapshot) []string {
	diff := make([]string, 0, len(after))
	for path := range after {
		if _, ok := before[path]; !ok {
			diff = append(diff, path)
		}
	}
	sort.Strings(diff)
	return diff
}
