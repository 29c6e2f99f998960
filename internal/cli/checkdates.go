package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/metadata"
	"github.com/sdejongh/geotagsync/pkg/models"
	"github.com/sdejongh/geotagsync/pkg/output"
	"github.com/sdejongh/geotagsync/pkg/storage"
)

type checkDatesFlags struct {
	Year      int
	ReportDir string
}

func (a *app) newCheckDatesCommand() *cobra.Command {
	var flags checkDatesFlags

	cmd := &cobra.Command{
		Use:   "check-dates <basePath>",
		Short: "List images whose capture date does not match their year folder",
		Long: `Scan every four-digit year folder under <basePath> (or only --year) for files
whose first capture timestamp (DateTimeOriginal, CreateDate, then ModifyDate)
is missing or outside that year. Matches are written to
<year>_non_matching_files.txt in the report directory; a report left by an
earlier run is removed when a year comes out clean. Images are never modified.`,
		Args: positionalArgs(1, 1, "base path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheckDates(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.Year, "year", 0, "only check this year's folder")
	cmd.Flags().StringVar(&flags.ReportDir, "report-dir", ".", "directory receiving the reports")

	return cmd
}

// isYearDir reports whether name is a four-digit year
func isYearDir(name string) bool {
	if len(name) != 4 {
		return false
	}
	_, err := strconv.Atoi(name)
	return err == nil && name[0] != '-' && name[0] != '+'
}

func (a *app) runCheckDates(cmd *cobra.Command, basePath string, flags checkDatesFlags) error {
	ctx := cmd.Context()

	backend, err := storage.NewLocal(basePath)
	if err != nil {
		return err
	}
	defer backend.Close()

	var dirs []string
	if flags.Year != 0 {
		name := fmt.Sprintf("%04d", flags.Year)
		info, err := backend.Stat(ctx, name)
		if err != nil || !info.IsDir {
			return &models.InvalidPathError{Path: filepath.Join(basePath, name), Reason: "year directory does not exist"}
		}
		dirs = []string{name}
	} else {
		subdirs, err := backend.Subdirs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list year directories: %w", err)
		}
		for _, d := range subdirs {
			if !isYearDir(d) {
				a.printf("Skipping non-year directory %s\n", d)
				continue
			}
			dirs = append(dirs, d)
		}
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger, err := a.newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	tool := a.opts.NewTool(cfg)
	for _, d := range dirs {
		year, _ := strconv.Atoi(d)
		root := filepath.Join(backend.Root(), d)
		a.printf("Processing directory %s for year %d\n", root, year)

		paths, err := tool.Query(ctx, metadata.Query{
			Root:      root,
			Predicate: metadata.CaptureYearMismatch(year),
			Recursive: true,
		})
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", root, err)
		}
		sort.Strings(paths)

		report, err := output.WriteMismatchReport(flags.ReportDir, year, paths)
		if err != nil {
			return err
		}
		logger.Info(ctx, "Year checked", logging.Fields{
			"year":         year,
			"non_matching": len(paths),
			"report":       report,
		})
		if report != "" {
			a.printf("Found %d files with a capture date outside %d, listed in %s\n", len(paths), year, report)
		} else {
			a.printf("All files in %s match %d\n", root, year)
		}
	}

	a.printf("All processing done.\n")
	return nil
}
