package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/treetop/internal/forest"
)

type options struct {
	part    int
	json    bool
	verbose bool
	logFile string
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "treetop [input]",
		Short: "Count visible trees and find the best scenic score in a height grid",
		Long: `treetop reads a grid of single-digit tree heights, one row per line,
and prints the number of trees visible from outside the grid (part 1)
followed by the highest scenic score of any interior tree (part 2).

The grid is read from the named file, or from stdin when the argument
is "-" or omitted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.part < 0 || opts.part > 2 {
				return fmt.Errorf("--part must be 1 or 2, got %d", opts.part)
			}
			return setupLogging(cmd.ErrOrStderr(), opts.verbose, opts.logFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			err := run(cmd, path, opts)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "treetop:", err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.part, "part", 0, "print only the answer to part 1 or part 2")
	flags.BoolVar(&opts.json, "json", false, "print the full survey as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this rotated file (default $TREETOP_LOG_FILE)")

	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

func run(cmd *cobra.Command, path string, opts options) error {
	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	grid, err := forest.Read(in)
	if err != nil {
		var parseErr *forest.ParseError
		if errors.As(err, &parseErr) {
			log.WithFields(logrus.Fields{
				"input":  path,
				"line":   parseErr.Line,
				"column": parseErr.Column,
			}).Debug("malformed grid")
		}
		return err
	}

	survey, err := forest.Analyze(cmd.Context(), grid)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"input":  path,
		"width":  survey.Width,
		"height": survey.Height,
	}).Debug("surveyed grid")

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(survey)
	case opts.part == 1:
		_, err = fmt.Fprintln(out, survey.Visible)
	case opts.part == 2:
		_, err = fmt.Fprintln(out, survey.ScenicScore)
	default:
		_, err = fmt.Fprintf(out, "%d\n%d\n", survey.Visible, survey.ScenicScore)
	}
	return err
}
