package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sdejongh/geotagsync/internal/platform"
	"github.com/sdejongh/geotagsync/pkg/models"
)

// Local is a filesystem-based search root
type Local struct {
	root    string
	absRoot string
}

// NewLocal opens rootPath, which must be an existing directory. Failures are
// reported as *models.InvalidPathError.
func NewLocal(rootPath string) (*Local, error) {
	if err := platform.ValidatePath(rootPath); err != nil {
		return nil, &models.InvalidPathError{Path: rootPath, Reason: err.Error()}
	}

	root := platform.NormalizePath(rootPath)
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, &models.InvalidPathError{Path: rootPath, Reason: fmt.Sprintf("failed to resolve path: %v", err)}
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return nil, &models.InvalidPathError{Path: rootPath, Reason: "does not exist"}
	}
	if err != nil {
		return nil, &models.InvalidPathError{Path: rootPath, Reason: fmt.Sprintf("failed to access path: %v", err)}
	}

	if !info.IsDir() {
		return nil, &models.InvalidPathError{Path: rootPath, Reason: "not a directory"}
	}

	return &Local{root: root, absRoot: absPath}, nil
}

// Root implements Backend
func (l *Local) Root() string {
	return l.root
}

// List returns all entries below path recursively
func (l *Local) List(ctx context.Context, path string) ([]FileInfo, error) {
	fullPath := filepath.Join(l.absRoot, path)
	var files []FileInfo

	err := filepath.WalkDir(fullPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p == fullPath {
			return nil
		}

		relPath, err := filepath.Rel(l.absRoot, p)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, FileInfo{
			Path:         filepath.Join(l.root, relPath),
			RelativePath: relPath,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
			IsDir:        info.IsDir(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// ListFiles returns regular files filtered by extension
func (l *Local) ListFiles(ctx context.Context, path string, extensions ...string) ([]FileInfo, error) {
	entries, err := l.List(ctx, path)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if len(wanted) > 0 && !wanted[strings.ToLower(filepath.Ext(e.Path))] {
			continue
		}
		files = append(files, e)
	}

	return files, nil
}

// Subdirs returns the immediate subdirectory names of the root, sorted
func (l *Local) Subdirs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)

	return dirs, nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	fullPath := filepath.Join(l.absRoot, path)

	_, err := os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	fullPath := filepath.Join(l.absRoot, path)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	relPath, err := filepath.Rel(l.absRoot, fullPath)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Path:         filepath.Join(l.root, relPath),
		RelativePath: relPath,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		IsDir:        info.IsDir(),
	}, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

var _ Backend = (*Local)(nil)
