package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/output"
	"github.com/sdejongh/geotagsync/pkg/storage"
)

// rawExtensions are the camera RAW formats convert-raw picks up
var rawExtensions = []string{".cr2", ".cr3", ".nef", ".arw", ".dng", ".raf", ".orf", ".rw2"}

func (a *app) newConvertRawCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert-raw <dir>",
		Short: "Extract the embedded JPEG of every RAW file under a folder",
		Long: `Write <name>.jpg next to every camera RAW file under <dir>, taken from the
full-size preview embedded in the RAW. Existing JPEGs are left alone, so the
command can be repeated safely.`,
		Args: positionalArgs(1, 1, "directory"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvertRaw(cmd, args[0])
		},
	}
}

func (a *app) runConvertRaw(cmd *cobra.Command, dir string) error {
	ctx := cmd.Context()

	backend, err := storage.NewLocal(dir)
	if err != nil {
		return err
	}
	defer backend.Close()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger, err := a.newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	files, err := backend.ListFiles(ctx, "", rawExtensions...)
	if err != nil {
		return fmt.Errorf("failed to list RAW files: %w", err)
	}

	tool := a.opts.NewTool(cfg)
	progress := output.NewProgress(a.opts.Stderr, "convert-raw", len(files), a.showProgress(cfg))

	var converted, skipped, failed int
	for _, f := range files {
		out, exists, err := tool.ConvertRaw(ctx, f.Path)
		switch {
		case err != nil:
			failed++
			logger.Error(ctx, "RAW conversion failed", err, logging.Fields{"path": f.Path})
			fmt.Fprintf(a.opts.Stderr, "Error: %s: %v\n", f.Path, err)
		case exists:
			skipped++
			logger.Debug(ctx, "JPEG already exists", logging.Fields{"path": f.Path, "output": out})
		default:
			converted++
			logger.Debug(ctx, "RAW converted", logging.Fields{"path": f.Path, "output": out})
		}
		progress.Increment()
		if ctx.Err() != nil {
			break
		}
	}
	progress.Finish()

	a.printf("Converted %d RAW files, skipped %d with an existing JPEG.\n", converted, skipped)
	if failed > 0 {
		return fmt.Errorf("failed to convert %d of %d files", failed, len(files))
	}
	return nil
}
