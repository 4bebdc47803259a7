package source

import "errors"

var (
	ErrCopy             = errors.New("recursive copy failed")
	ErrDownload         = errors.New("failed to download source")
	ErrValidationFailed = errors.New("download could not be validated with checksum")
	ErrNoChecksum       = errors.New("no checksum found for url")
	ErrFileNotFound     = errors.New("file not found")
	ErrGlob             = errors.New("failed to parse glob pattern")
	ErrStripPrefix      = errors.New("failed to strip path prefix")
	ErrGit              = errors.New("failed to run git command")
	ErrGitNotFound      = errors.New("could not find `git` executable")
	ErrTarNotFound      = errors.New("could not find `tar` executable")
	ErrPatchNotFound    = errors.New("could not find `patch` executable")
	ErrPatchFailed      = errors.New("failed to apply patch")
	ErrExtraction       = errors.New("failed to extract archive")
	ErrSource           = errors.New("source failed")
)
