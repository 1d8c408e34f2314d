// Package filesystem provides the filesystem abstraction the merge services
// run against, enabling testability through an in-memory implementation
// while maintaining compatibility with the OS filesystem.
package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// Provider abstracts the file operations a merge run performs: reading
// input manifests and params files, checking the output target, writing the
// merged manifest and the report.
type Provider interface {
	// ReadFile reads the file at the given path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes content to the given path, creating missing parent
	// directories.
	WriteFile(path string, content []byte) error

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)

	// Exists reports whether the path exists.
	Exists(path string) bool
}
