// Package cli wires the geotagsync commands together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/geotagsync/internal/platform"
	"github.com/sdejongh/geotagsync/pkg/config"
	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/metadata"
	"github.com/sdejongh/geotagsync/pkg/models"
	"github.com/sdejongh/geotagsync/pkg/output"
)

const usageLine = "geotagsync [--dry-run|-d] [--help|-h] <searchPath> [<referencePhoto>]"

// ToolFactory builds the metadata tool for a loaded configuration
type ToolFactory func(cfg *config.Config) metadata.Tool

// BuildInfo is set by the main package via ldflags
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// Options configures the command tree
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	NewTool ToolFactory
	Build   BuildInfo
}

// NewExifToolFactory returns the production ToolFactory
func NewExifToolFactory() ToolFactory {
	return func(cfg *config.Config) metadata.Tool {
		return metadata.NewExifTool(cfg.Tool.Path, metadata.WithTimeout(cfg.Tool.Timeout))
	}
}

// app carries the state shared by every command of one command tree
type app struct {
	opts  Options
	flags GlobalFlags
}

// NewRootCommand builds the command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.NewTool == nil {
		opts.NewTool = NewExifToolFactory()
	}
	if opts.Build.Version == "" {
		opts.Build.Version = "dev"
	}

	a := &app{opts: opts}

	var dryRun bool
	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "Copy a photo's geotag onto every untagged image in a folder",
		Long: `geotagsync finds the images under a folder that lack GPS metadata and copies
the GPS fields of a reference photo onto all of them in one exiftool call.

When no reference photo is given and exactly one image in the folder is
geotagged, that image is used. With several candidates the tool lists them
and asks for an explicit choice.`,
		Args:          positionalArgs(1, 2, "search path"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := RunConfig{SearchPath: args[0], DryRun: dryRun}
			if len(args) == 2 {
				rc.ReferencePhoto = args[1]
			}
			return a.runPropagate(cmd.Context(), rc)
		},
	}
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &models.ArgumentError{Message: err.Error()}
	})

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "print the exiftool command instead of running it")
	addGlobalFlags(cmd, &a.flags)

	cmd.AddCommand(a.newStampDateCommand())
	cmd.AddCommand(a.newConvertRawCommand())
	cmd.AddCommand(a.newCheckDatesCommand())
	cmd.AddCommand(a.newConfigCommand())
	cmd.AddCommand(a.newVersionCommand())

	return cmd
}

// Execute runs the command tree with args and returns the exit code
func Execute(ctx context.Context, args []string, opts Options) int {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	stderr := cmd.ErrOrStderr()
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	if ExitCode(err) == ExitUsage {
		fmt.Fprintf(stderr, "Usage: %s\nRun 'geotagsync --help' for more information.\n", usageLine)
	}
	return ExitCode(err)
}

// loadConfig loads the --config file, or the default location when unset
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.ConfigFile != "" {
		path, pathErr := a.configPath()
		if pathErr != nil {
			return nil, pathErr
		}
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if a.flags.Output != "" {
		cfg.Output.Format = a.flags.Output
	}
	if a.flags.LogFile != "" {
		cfg.Logging.File = a.flags.LogFile
	}
	if a.flags.LogFormat != "" {
		cfg.Logging.Format = a.flags.LogFormat
	}
	if a.flags.LogLevel != "" {
		cfg.Logging.Level = a.flags.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, &models.ArgumentError{Message: err.Error()}
	}

	for _, path := range []*string{&cfg.Logging.File, &cfg.Tool.Path} {
		expanded, err := platform.ExpandHome(*path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", *path, err)
		}
		*path = expanded
	}
	return cfg, nil
}

// configPath returns the --config path with "~" expanded, or the default
// location when unset
func (a *app) configPath() (string, error) {
	if a.flags.ConfigFile == "" {
		return config.DefaultConfigPath()
	}
	path, err := platform.ExpandHome(a.flags.ConfigFile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}

// newLogger logs to the configured file, or to stderr at debug level with
// --verbose, and discards otherwise
func (a *app) newLogger(cfg *config.Config) (logging.Logger, error) {
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Logging.File != "":
		logger, err := logging.New(logging.Config{
			Path:       cfg.Logging.File,
			Format:     format,
			Level:      level,
			MaxSize:    int64(cfg.Logging.MaxSizeMB) * 1024 * 1024,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		return logger, nil
	case a.flags.Verbose:
		return logging.New(logging.Config{Writer: a.opts.Stderr, Format: format, Level: logging.DebugLevel})
	default:
		return logging.NewNullLogger(), nil
	}
}

func (a *app) newFormatter(cfg *config.Config) (output.Formatter, error) {
	return output.New(cfg.Output.Format, output.Options{
		Color:     cfg.Output.Color,
		Quiet:     a.flags.Quiet,
		ErrWriter: a.opts.Stderr,
	})
}

// showProgress reports whether per-file commands draw a progress bar
func (a *app) showProgress(cfg *config.Config) bool {
	return cfg.Output.Progress && !a.flags.Quiet && output.IsTerminal(a.opts.Stderr)
}

// printf writes human output unless --quiet is set
func (a *app) printf(format string, args ...interface{}) {
	if !a.flags.Quiet {
		fmt.Fprintf(a.opts.Stdout, format, args...)
	}
}
