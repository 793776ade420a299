package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dagimg-dot/floww/internal/config"
	"github.com/dagimg-dot/floww/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent apply runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := history.Open(config.HistoryDBPath(cfgDir))
		if err != nil {
			return err
		}
		defer repo.Close()

		runs, err := repo.List(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}

		for _, run := range runs {
			status := "ok"
			if !run.Success {
				status = "failed"
			}
			mode := ""
			if run.Append {
				mode = " (append)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %-7s %6.1fs%s\n",
				run.AppliedAt.Local().Format(time.DateTime),
				run.Workflow, status, run.Duration.Seconds(), mode)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20,
		"maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
