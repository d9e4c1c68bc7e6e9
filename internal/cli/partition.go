package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/symgraph/internal/ir"
	"github.com/roach88/symgraph/internal/partition"
)

// PartitionOptions holds flags for the partition command.
type PartitionOptions struct {
	*RootOptions
	SkipNodes []string
	SkipOps   []string
}

// PartitionReport is the command's success payload.
type PartitionReport struct {
	Graph    Summary  `json:"graph"`
	Eligible []string `json:"eligible"`
	Rejected []string `json:"rejected"`
}

// Summary is the graph header in a partition report.
type Summary struct {
	Name  string `json:"name"`
	Calls int    `json:"calls"`
}

// NewPartitionCommand creates the partition command.
func NewPartitionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PartitionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "partition <graph.cue>",
		Short:         "Report which graph nodes are eligible for symbolic encoding",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPartition(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.SkipNodes, "skip-node", nil, "node identities to exclude")
	cmd.Flags().StringSliceVar(&opts.SkipOps, "skip-op", nil, "operator names to exclude")

	return cmd
}

func runPartition(opts *PartitionOptions, graphPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	g, err := LoadGraph(graphPath)
	if err != nil {
		return commandError(formatter, err)
	}

	filter := partition.New(partition.Options{
		SkipNodes: opts.SkipNodes,
		SkipOps:   opts.SkipOps,
	})

	report := &PartitionReport{Graph: Summary{Name: g.Name}}
	for _, n := range g.Nodes {
		if n.Kind != ir.KindCall {
			continue
		}
		report.Graph.Calls++
		if filter.IsEligible(n) {
			report.Eligible = append(report.Eligible, n.Key())
		} else {
			report.Rejected = append(report.Rejected, n.Key())
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "Graph %q: %d call node(s), %d eligible, %d rejected\n",
		report.Graph.Name, report.Graph.Calls, len(report.Eligible), len(report.Rejected))
	if len(report.Eligible) > 0 {
		fmt.Fprintln(formatter.Writer, "\nEligible:")
		for _, name := range report.Eligible {
			fmt.Fprintf(formatter.Writer, "  %s\n", name)
		}
	}
	if len(report.Rejected) > 0 {
		fmt.Fprintln(formatter.Writer, "\nRejected:")
		for _, name := range report.Rejected {
			fmt.Fprintf(formatter.Writer, "  %s\n", name)
		}
	}
	return nil
}
