package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Show inactivity gaps at or above the configured threshold",
	RunE:  runGaps,
}

func init() {
	addMiningFlags(gapsCmd)
}

func runGaps(cmd *cobra.Command, args []string) error {
	result, err := minePipeline(context.Background())
	if err != nil {
		return err
	}

	if len(result.Commits) == 0 {
		fmt.Println("No activity in window.")
		return nil
	}
	if len(result.Gaps) == 0 {
		fmt.Println("No inactivity gaps at or above the threshold.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"From", "To", "Days"})
	for _, gap := range result.Gaps {
		table.Append([]string{gap.StartDate, gap.EndDate, fmt.Sprintf("%d", gap.DurationDays)})
	}
	table.Render()

	return nil
}
