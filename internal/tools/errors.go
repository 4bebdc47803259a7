package tools

import "errors"

var (
	ErrPackage           = errors.New("packaging failed")
	ErrIndex             = errors.New("channel indexing failed")
	ErrTest              = errors.New("package test failed")
	ErrContentTest       = errors.New("package content test failed")
	ErrUnsupportedFormat = errors.New("unsupported package format")
	ErrUnresolvable      = errors.New("cannot resolve dependencies without an external resolver")
)
