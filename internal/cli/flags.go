package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	Output     string
	LogFile    string
	LogFormat  string
	LogLevel   string
}

// addGlobalFlags adds global flags to the root command
func addGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "config file (default is $HOME/.config/geotagsync/config.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "log debug details to stderr")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-error output")
	pf.StringVarP(&flags.Output, "output", "o", "", "output format: human, json (default from config)")
	pf.StringVar(&flags.LogFile, "log-file", "", "write logs to file (enables logging)")
	pf.StringVar(&flags.LogFormat, "log-format", "", "log format: text, json (default from config)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
}

// positionalArgs accepts between min and max operands; max < 0 means no
// upper bound. Violations are argument errors.
func positionalArgs(min, max int, names string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min {
			return argumentErrorf("missing %s", names)
		}
		if max >= 0 && len(args) > max {
			return argumentErrorf("too many arguments: expected at most %d, got %d", max, len(args))
		}
		return nil
	}
}
