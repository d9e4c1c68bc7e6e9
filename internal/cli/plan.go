package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/symgraph/internal/memplan"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Assign bool
}

// PlanReport is the command's success payload.
type PlanReport struct {
	Intervals  int    `json:"intervals"`
	ArenaSize  int64  `json:"arena_size"`
	ReusePairs int    `json:"reuse_pairs"`
	Algorithm  string `json:"algorithm"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <plan.yaml>",
		Short: "Verify a memory plan's storage assignments",
		Long: `Verify that a memory plan's storage assignments respect the
non-overlap discipline: live, non-aliased values never share bytes, and
every value the configuration designates for allocation has one.

With --assign, offsets are computed first using the document's
configured algorithm; without it the document must already carry a
completed assignment.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Assign, "assign", false, "assign offsets before verifying")

	return cmd
}

func runPlan(opts *PlanOptions, planPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	doc, err := memplan.Load(planPath)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Loaded plan with %d interval(s)", len(doc.Plan.Intervals))

	if opts.Assign {
		planner := memplan.NewPlanner(doc.Config, nil)
		if err := planner.Assign(&doc.Plan); err != nil {
			_ = formatter.Error(ErrCodePlanFailed, err.Error(), nil)
			return WrapExitError(ExitFailure, "planning failed", err)
		}
	}

	verifier := memplan.NewVerifier(doc.Config, nil)
	if err := verifier.VerifyGraphInputOutput(&doc.Plan); err != nil {
		_ = formatter.Error(ErrCodePlanFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "verification failed", err)
	}
	reused, err := verifier.VerifyStorageReuse(&doc.Plan)
	if err != nil {
		_ = formatter.Error(ErrCodePlanFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "verification failed", err)
	}

	report := &PlanReport{
		Intervals:  len(doc.Plan.Intervals),
		ArenaSize:  doc.Plan.ArenaSize,
		ReusePairs: reused,
		Algorithm:  doc.Config.Algorithm,
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ Verified %d interval(s): arena %d byte(s), %d reuse pair(s)\n",
		report.Intervals, report.ArenaSize, report.ReusePairs)
	return nil
}
