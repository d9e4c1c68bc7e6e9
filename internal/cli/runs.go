package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/symgraph/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	DB    string
	Graph string
}

// RunRecord is one catalog row in a runs report.
type RunRecord struct {
	ID        string   `json:"id"`
	Graph     string   `json:"graph"`
	CreatedAt string   `json:"created_at"`
	Payload   string   `json:"payload,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// NewRunsCommand creates the runs command and its subcommands.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the encoding-run catalog",
	}
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "symgraph.db", "catalog database path")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List recorded encoding runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runsList(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Graph, "graph", "", "only runs for this graph")

	show := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one run's artifact payload",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runsShow(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func runsList(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening catalog", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), opts.Graph)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	records := make([]RunRecord, 0, len(runs))
	for _, r := range runs {
		records = append(records, RunRecord{
			ID:        r.ID,
			Graph:     r.Graph,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
			Warnings:  r.Warnings,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s", r.ID, r.CreatedAt, r.Graph)
		if len(r.Warnings) > 0 {
			fmt.Fprintf(formatter.Writer, "  (%d warning(s))", len(r.Warnings))
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

func runsShow(opts *RunsOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening catalog", err)
	}
	defer st.Close()

	run, err := st.GetRun(context.Background(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("run %s not found", runID), nil)
		return NewExitError(ExitCommandError, "run not found")
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "fetching run", err)
	}

	record := RunRecord{
		ID:        run.ID,
		Graph:     run.Graph,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
		Payload:   string(run.Payload),
		Warnings:  run.Warnings,
	}

	if formatter.Format == "json" {
		return formatter.Success(record)
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%s, %s)\n\n", record.ID, record.Graph, record.CreatedAt)
	fmt.Fprintln(formatter.Writer, record.Payload)
	for _, w := range record.Warnings {
		fmt.Fprintf(formatter.Writer, "warning: %s\n", w)
	}
	return nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
