// Package errors provides the classified error type used across xrefsync.
//
// Every failure that reaches the command line carries a category (config, network,
// filesystem, encoding, git, ...) and a severity. The CLI adapter turns the category
// into a process exit code and a one-line diagnostic.
//
// Example usage:
//
//	err := errors.FileSystemError("write document").
//		WithContext("path", path).
//		WithCause(originalErr).
//		Build()
package errors
