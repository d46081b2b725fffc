package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/parkalloc/config"
	"github.com/kilianp07/parkalloc/core/allocation"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Print the objective weight of each facility",
	RunE:  runWeights,
}

func init() {
	rootCmd.AddCommand(weightsCmd)
}

func runWeights(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	s := cfg.Snapshot()
	if err := s.Validate(); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FACILITY\tCAPACITY\tDEMAND\tWEIGHT")
	for i, wgt := range allocation.Weights(s) {
		f := s.Facilities[i]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\n", f.ID, f.Capacity, f.Demand, wgt)
	}
	return tw.Flush()
}
