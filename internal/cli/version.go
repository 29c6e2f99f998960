package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versioner is implemented by tools that can report their own version
type versioner interface {
	Version(ctx context.Context) (string, error)
	Program() string
}

func (a *app) newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information for geotagsync and the exiftool it runs.`,
		Args:  positionalArgs(0, 0, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := a.opts.Stdout
			build := a.opts.Build

			if short {
				fmt.Fprintln(w, build.Version)
				return nil
			}

			fmt.Fprintf(w, "geotagsync %s\n", build.Version)
			fmt.Fprintf(w, "  Commit:     %s\n", orUnknown(build.Commit))
			fmt.Fprintf(w, "  Built:      %s\n", orUnknown(build.BuildDate))
			fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if v, ok := a.opts.NewTool(cfg).(versioner); ok {
				toolVersion, err := v.Version(cmd.Context())
				if err != nil {
					toolVersion = "not available (" + err.Error() + ")"
				}
				fmt.Fprintf(w, "  exiftool:   %s (%s)\n", toolVersion, v.Program())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
