package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var prsMajorOnly bool

var prsCmd = &cobra.Command{
	Use:   "prs",
	Short: "Show pull-request groups mined from commit messages",
	RunE:  runPRs,
}

func init() {
	addMiningFlags(prsCmd)
	prsCmd.Flags().BoolVar(&prsMajorOnly, "major", false, "only show major PRs with their tier")
}

func runPRs(cmd *cobra.Command, args []string) error {
	result, err := minePipeline(context.Background())
	if err != nil {
		return err
	}

	if len(result.PRGroups) == 0 {
		fmt.Println("No pull-request references found in window.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	if prsMajorOnly {
		table.SetHeader([]string{"PR", "Title", "Commits", "Added", "Deleted", "Tier", "First", "Last"})
		for _, pr := range result.MajorPRs {
			table.Append([]string{
				fmt.Sprintf("#%d", pr.Number),
				pr.Title,
				fmt.Sprintf("%d", len(pr.Commits)),
				fmt.Sprintf("%d", pr.TotalAdded),
				fmt.Sprintf("%d", pr.TotalDeleted),
				string(pr.Tier),
				pr.FirstDate,
				pr.LastDate,
			})
		}
	} else {
		table.SetHeader([]string{"PR", "Title", "Commits", "Added", "Deleted", "First", "Last"})
		for _, group := range result.PRGroups {
			table.Append([]string{
				fmt.Sprintf("#%d", group.Number),
				group.Title,
				fmt.Sprintf("%d", len(group.Commits)),
				fmt.Sprintf("%d", group.TotalAdded),
				fmt.Sprintf("%d", group.TotalDeleted),
				group.FirstDate,
				group.LastDate,
			})
		}
	}
	table.Render()

	return nil
}
