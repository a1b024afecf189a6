package rewrite

import "errors"

var (
	// ErrRootNotDirectory indicates the root path is not a directory.
	ErrRootNotDirectory = errors.New("root is not a directory")

	// ErrReadmeMissing indicates the summary file is absent in directory mode.
	ErrReadmeMissing = errors.New("readme not found under root")

	// ErrPathOutsideRoot indicates a path-list key that resolves outside the root.
	ErrPathOutsideRoot = errors.New("path escapes root directory")

	// ErrUnknownMode indicates an unsupported rewrite mode.
	ErrUnknownMode = errors.New("unknown rewrite mode")
)
