package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MismatchReportName returns the check-dates report file name for year
func MismatchReportName(year int) string {
	return fmt.Sprintf("%04d_non_matching_files.txt", year)
}

// WriteMismatchReport writes one path per line to dir/<year>_non_matching_files.txt.
// With no paths, a stale report from an earlier run is removed instead and
// the returned path is empty.
func WriteMismatchReport(dir string, year int, paths []string) (string, error) {
	path := filepath.Join(dir, MismatchReportName(year))

	if len(paths) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to remove stale report: %w", err)
		}
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
