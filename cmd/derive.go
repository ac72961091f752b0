package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/dynfinder/formatter"
	"github.com/gnolang/dynfinder/repository"
)

type deriveOptions struct {
	json   bool
	output string
	watch  bool
	jobs   int
}

// newDeriveCmd: dynfinder derive FILE...
func newDeriveCmd(opts *options) *cobra.Command {
	do := &deriveOptions{}

	deriveCmd := &cobra.Command{
		Use:   "derive FILE...",
		Short: "Derive queries for every method of the repository descriptors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !do.watch {
				ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
				defer cancel()
				return runDerive(ctx, cmd, opts, do, args)
			}
			return watchDerive(cmd, opts, do, args)
		},
	}

	deriveCmd.Flags().BoolVar(&do.json, "json", false, "Output results in JSON format")
	deriveCmd.Flags().StringVarP(&do.output, "output", "o", "", "Output path")
	deriveCmd.Flags().BoolVarP(&do.watch, "watch", "w", false, "Derive again whenever a descriptor changes")
	deriveCmd.Flags().IntVarP(&do.jobs, "jobs", "j", 0, "Number of methods derived at once (default: number of CPUs)")

	return deriveCmd
}

func runDerive(ctx context.Context, cmd *cobra.Command, opts *options, do *deriveOptions, paths []string) error {
	deriverOpts := []repository.Option{
		repository.WithLogger(opts.logger),
		repository.WithJobs(do.jobs),
	}
	if isTerminal(cmd.ErrOrStderr()) {
		deriverOpts = append(deriverOpts, repository.WithProgress(cmd.ErrOrStderr()))
	}
	deriver := repository.NewDeriver(deriverOpts...)

	var results []repository.Result
	for _, path := range paths {
		cfg, err := repository.Load(path)
		if err != nil {
			opts.logger.Error("Failed to load descriptor", zap.String("path", path), zap.Error(err))
			return err
		}
		res, err := deriver.DeriveAll(ctx, cfg)
		if err != nil {
			return err
		}
		results = append(results, res...)
	}

	w := cmd.OutOrStdout()
	if do.output != "" {
		f, err := os.Create(do.output)
		if err != nil {
			opts.logger.Error("Error creating output file", zap.Error(err))
			return err
		}
		defer f.Close()
		w = f
	}
	return printResults(w, results, do.json, true)
}

// watchDerive derives once, then again on every descriptor change until
// interrupted. Failed methods do not stop the watch.
func watchDerive(cmd *cobra.Command, opts *options, do *deriveOptions, paths []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := runDerive(ctx, cmd, opts, do, paths); err != nil && !errors.Is(err, ErrFailed) {
		return err
	}
	return repository.Watch(ctx, opts.logger, func(path string) {
		opts.logger.Info("Descriptor changed", zap.String("path", path))
		if err := runDerive(ctx, cmd, opts, do, paths); err != nil && !errors.Is(err, ErrFailed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}, paths...)
}

// printResults writes results as text or JSON and returns ErrFailed when any
// of them carries an error.
func printResults(w io.Writer, results []repository.Result, isJson bool, grouped bool) error {
	if isJson {
		d, err := json.Marshal(results)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(d)); err != nil {
			return err
		}
	} else {
		if !isTerminal(w) && !color.NoColor {
			color.NoColor = true
		}
		var out string
		if grouped {
			out = formatter.FormatResults(results)
		} else {
			for _, r := range results {
				out += formatter.FormatResult(r)
			}
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}

	if len(repository.Failed(results)) > 0 {
		return ErrFailed
	}
	return nil
}
