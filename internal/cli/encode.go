package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/symgraph/internal/encoder"
	"github.com/roach88/symgraph/internal/store"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	WholeFormula bool
	Output       string
	DB           string
}

// EncodeReport is the command's success payload.
type EncodeReport struct {
	RunID    string   `json:"run_id,omitempty"`
	Graph    string   `json:"graph"`
	Exprs    []string `json:"final_smt_exprs"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <graph.cue>",
		Short: "Encode a graph document into a symbolic artifact",
		Long: `Encode a tensor-program graph document into its symbolic logic artifact.

The graph is walked in definition order: placeholders are seeded as
constants or free variables, each supported operator emits an
expression bound under the node's identity, and the resolved outputs
are serialized as the artifact payload.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.WholeFormula, "whole-formula", false, "serialize one conjoined formula instead of the output expressions")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the artifact payload to a file")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in a catalog database")

	return cmd
}

func runEncode(opts *EncodeOptions, graphPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	g, err := LoadGraph(graphPath)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Loaded graph %q with %d node(s)", g.Name, len(g.Nodes))

	enc, err := encoder.New(encoder.Options{WholeFormula: opts.WholeFormula})
	if err != nil {
		return commandError(formatter, err)
	}

	result, err := enc.Encode(g)
	if err != nil {
		_ = formatter.Error(ErrCodeEncodeFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "encoding failed", err)
	}

	report := &EncodeReport{
		Graph:    g.Name,
		Exprs:    result.Artifact.FinalExprs,
		Warnings: result.Artifact.Warnings,
	}

	if opts.Output != "" {
		if err := writePayload(opts.Output, result.Artifact.Payload); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing artifact", err)
		}
	}

	if opts.DB != "" {
		runID, err := saveRun(opts.DB, g.Name, result.Artifact)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording run", err)
		}
		report.RunID = runID
	}

	return outputEncodeReport(formatter, report, opts.Output)
}

func writePayload(path string, payload []byte) error {
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("writing artifact payload: %w", err)
	}
	return nil
}

func saveRun(dbPath, graph string, artifact *encoder.Artifact) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run := store.Run{
		ID:        uuid.NewString(),
		Graph:     graph,
		CreatedAt: time.Now().UTC(),
		Payload:   artifact.Payload,
		Warnings:  artifact.Warnings,
	}
	if err := st.SaveRun(context.Background(), run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func outputEncodeReport(formatter *OutputFormatter, report *EncodeReport, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ Encoded graph %q: %d expression(s)\n\n", report.Graph, len(report.Exprs))
	for _, e := range report.Exprs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintf(formatter.Writer, "\nWarnings:\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(formatter.Writer, "  %s\n", w)
		}
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote artifact to %s\n", outputFile)
	}
	if report.RunID != "" {
		fmt.Fprintf(formatter.Writer, "Recorded run %s\n", report.RunID)
	}
	return nil
}

func commandError(formatter *OutputFormatter, err error) error {
	if le, ok := err.(*LoadError); ok {
		_ = formatter.Error(le.Code, le.Message, nil)
	} else {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return WrapExitError(ExitCommandError, err.Error(), nil)
}
