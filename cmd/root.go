package cmd

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Minute

// ErrFailed is returned when at least one method could not be parsed. The
// failures have already been printed.
var ErrFailed = errors.New("some methods could not be derived")

// options are shared by every subcommand.
type options struct {
	timeout time.Duration
	verbose bool

	logger *zap.Logger
}

func NewRootCommand() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd builds the command tree. A nil logger is built from the
// --verbose flag before any subcommand runs.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := &options{logger: logger}

	rootCmd := &cobra.Command{
		Use:           "dynfinder",
		Short:         "dynfinder - derive queries from dynamic finder method names",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logger != nil {
				return nil
			}
			cfg := zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
			if opts.verbose {
				cfg = zap.NewDevelopmentConfig()
			}
			l, err := cfg.Build()
			if err != nil {
				return err
			}
			opts.logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Set a timeout for deriving")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable development logging")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newDeriveCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
