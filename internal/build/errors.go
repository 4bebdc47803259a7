package build

import "errors"

var (
	ErrBuild               = errors.New("build failed")
	ErrSpawn               = errors.New("failed to execute build process")
	ErrScript              = errors.New("failed to resolve build script")
	ErrFileSystemOperation = errors.New("file system operation failed")
)
