package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/models"
	"github.com/sdejongh/geotagsync/pkg/output"
)

// stampLayouts are the accepted forms of the stamp-date timestamp
var stampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05",
	time.RFC3339,
}

// parseCaptureDate parses s in local time unless it carries an offset
func parseCaptureDate(s string) (time.Time, error) {
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, argumentErrorf("invalid date %q: use YYYY-MM-DD HH:MM:SS, YYYY:MM:DD HH:MM:SS or RFC 3339", s)
}

func (a *app) newStampDateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stamp-date <datetime> <file>...",
		Short: "Set the capture date of images",
		Long: `Overwrite DateTimeOriginal, CreateDate and ModifyDate of every given file
with one timestamp.`,
		Example: `  geotagsync stamp-date "2021-07-14 10:30:00" scan1.jpg scan2.jpg`,
		Args:    positionalArgs(2, -1, "datetime and at least one file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseCaptureDate(args[0])
			if err != nil {
				return err
			}
			return a.runStampDate(cmd, at, args[1:])
		},
	}
}

func (a *app) runStampDate(cmd *cobra.Command, at time.Time, files []string) error {
	ctx := cmd.Context()

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return &models.InvalidPathError{Path: f, Reason: "does not exist"}
		}
		if info.IsDir() {
			return &models.InvalidPathError{Path: f, Reason: "is a directory"}
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
	progress := output.NewProgress(a.opts.Stderr, "stamp-date", len(files), a.showProgress(cfg))

	failed := 0
	for _, f := range files {
		if err := tool.SetCaptureDate(ctx, f, at); err != nil {
			failed++
			logger.Error(ctx, "Failed to set capture date", err, logging.Fields{"path": f})
			fmt.Fprintf(a.opts.Stderr, "Error: %s: %v\n", f, err)
		} else {
			logger.Debug(ctx, "Capture date set", logging.Fields{"path": f, "date": at.Format(time.RFC3339)})
		}
		progress.Increment()
		if ctx.Err() != nil {
			break
		}
	}
	progress.Finish()

	if failed > 0 {
		return fmt.Errorf("failed to stamp %d of %d files", failed, len(files))
	}
	a.printf("Set capture date %s on %d files.\n", at.Format("2006-01-02 15:04:05"), len(files))
	return nil
}
