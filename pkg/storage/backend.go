package storage

import (
	"context"
	"time"
)

// FileInfo represents metadata about a file under a search root
type FileInfo struct {
	Path         string // root-prefixed path, as passed to the metadata tool
	RelativePath string
	Size         int64
	ModTime      time.Time
	IsDir        bool
}

// Backend defines read-only access to a search root
type Backend interface {
	// Root returns the root path as given, cleaned
	Root() string

	// List returns all entries below path recursively, in lexical order
	List(ctx context.Context, path string) ([]FileInfo, error)

	// ListFiles returns the regular files below path whose extension matches
	// one of extensions (case-insensitive, with leading dot); all files when
	// extensions is empty
	ListFiles(ctx context.Context, path string, extensions ...string) ([]FileInfo, error)

	// Subdirs returns the names of the immediate subdirectories of the root
	Subdirs(ctx context.Context) ([]string, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Close releases any resources held by the backend
	Close() error
}
