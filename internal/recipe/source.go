package recipe

import "github.com/opencontainers/go-digest"

// Describes one origin of source material for a build.
//
// Source is a closed union: the only implementations are [GitSource],
// [URLSource], and [PathSource]. Consumers dispatch with a type switch and
// must handle all three variants.
type Source interface {
	isSource()

	// Subfolder of the work directory the source is placed into.
	// Empty means the work directory itself.
	TargetFolder() string

	// Patch files applied after the source is materialized, in
	// declaration order, resolved against the recipe directory.
	PatchFiles() []string
}

// A source checked out from a git repository.
type GitSource struct {
	URL     string   // Remote repository URL.
	Rev     string   // Branch, tag, or commit. Empty selects the default branch head.
	Folder  string   // Destination subfolder under the work directory.
	Patches []string // Patch files relative to the recipe directory.
}

func (GitSource) isSource() {}
func (s GitSource) TargetFolder() string { return s.Folder }
func (s GitSource) PatchFiles() []string { return s.Patches }

// A source downloaded from one of a list of candidate URLs.
//
// Candidates are tried in declaration order; the first successful,
// checksum-validated download wins.
type URLSource struct {
	URLs     []string      // Candidate URLs, tried in order.
	Checksum digest.Digest // Expected digest of the downloaded file.
	FileName string        // Explicit destination file name for non-archive downloads.
	Folder   string        // Destination subfolder under the work directory.
	Patches  []string      // Patch files relative to the recipe directory.
}

func (URLSource) isSource() {}
func (s URLSource) TargetFolder() string { return s.Folder }
func (s URLSource) PatchFiles() []string { return s.Patches }

// A source copied from a local path, resolved against the recipe directory.
type PathSource struct {
	Path         string   // File or directory path, relative to the recipe directory.
	UseGitignore bool     // Whether ignore-file rules are honored when copying a directory.
	FileName     string   // Explicit destination file name for single-file copies.
	Folder       string   // Destination subfolder under the work directory.
	Patches      []string // Patch files relative to the recipe directory.
}

func (PathSource) isSource() {}
func (s PathSource) TargetFolder() string { return s.Folder }
func (s PathSource) PatchFiles() []string { return s.Patches }
