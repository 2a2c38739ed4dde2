package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent package operations",
	Long: `Lists the package operations journaled in .ppm/history.db, newest first.
Every add, remove, install and update is recorded per package, including
failures.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", domain.DefaultHistoryLimit, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	entries, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(entries) == 0 {
		p.muted("No history recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOPERATION\tPACKAGE\tVERSION\tSTATUS")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Operation, e.Package, version, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if verbose {
		for _, e := range entries {
			if e.Error != "" {
				p.errorf("%s %s: %s", e.Operation, e.Package, e.Error)
			}
		}
	}
	return nil
}
