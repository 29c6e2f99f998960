package classify

import (
	"path"
	"path/filepath"
	"strings"
)

// ExcludeMatcher decides whether a path relative to the search root is left
// out of classification. Supported patterns:
//   - basename globs: *.xmp, IMG_*.jpg
//   - directory patterns: .thumbnails/, @eaDir/
//   - path globs: 2019/*.jpg
//   - any-depth globs: **/originals/*
type ExcludeMatcher struct {
	patterns []string
}

// NewExcludeMatcher normalizes patterns and drops empty ones
func NewExcludeMatcher(patterns []string) *ExcludeMatcher {
	m := &ExcludeMatcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(filepath.ToSlash(p))
		if p != "" {
			m.patterns = append(m.patterns, p)
		}
	}
	return m
}

// Empty reports whether no patterns are configured
func (m *ExcludeMatcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Match reports whether rel matches any pattern
func (m *ExcludeMatcher) Match(rel string) bool {
	if m.Empty() {
		return false
	}

	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	base := path.Base(rel)

	for _, pattern := range m.patterns {
		switch {
		case strings.HasSuffix(pattern, "/"):
			if matchDir(rel, strings.TrimSuffix(pattern, "/")) {
				return true
			}
		case strings.HasPrefix(pattern, "**/"):
			if matchAnyDepth(rel, strings.TrimPrefix(pattern, "**/")) {
				return true
			}
		case strings.Contains(pattern, "/"):
			if glob(pattern, rel) {
				return true
			}
		default:
			if glob(pattern, base) {
				return true
			}
		}
	}
	return false
}

// matchDir matches when any directory component of rel matches dir
func matchDir(rel, dir string) bool {
	parts := strings.Split(rel, "/")
	for _, part := range parts[:len(parts)-1] {
		if glob(dir, part) {
			return true
		}
	}
	return false
}

// matchAnyDepth matches suffix against every trailing run of components
func matchAnyDepth(rel, suffix string) bool {
	parts := strings.Split(rel, "/")
	for i := range parts {
		if glob(suffix, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

func glob(pattern, name string) bool {
	ok, _ := path.Match(pattern, name)
	return ok
}
