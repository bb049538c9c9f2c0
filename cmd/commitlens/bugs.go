package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var bugsCmd = &cobra.Command{
	Use:   "bugs",
	Short: "Show bug-pattern analysis for the contributor",
	Long: `Classify the contributor's bug-related commits into categories, build
the monthly time series, and surface red flags. With --hotfixes, each
bug commit is also checked for reachability from a release branch.`,
	RunE: runBugs,
}

func init() {
	addMiningFlags(bugsCmd)
}

func runBugs(cmd *cobra.Command, args []string) error {
	result, err := minePipeline(context.Background())
	if err != nil {
		return err
	}

	analysis := result.BugAnalysis
	if analysis == nil || len(analysis.Occurrences) == 0 {
		fmt.Println("No bug-related commits in window.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Date", "Hash", "Categories", "Hotfix", "Message"})
	for _, occ := range analysis.Occurrences {
		hotfix := ""
		if occ.IsHotfix {
			hotfix = "yes"
		}
		table.Append([]string{
			occ.Commit.Date,
			shortHash(occ.Commit.Hash),
			strings.Join(occ.Categories, ", "),
			hotfix,
			truncate(occ.Commit.Message, 60),
		})
	}
	table.Render()

	if len(analysis.Monthly) > 0 {
		fmt.Println("\nMonthly bug-related commits:")
		monthly := tablewriter.NewWriter(os.Stdout)
		monthly.SetHeader([]string{"Month", "Count"})
		for _, bucket := range analysis.Monthly {
			monthly.Append([]string{bucket.Month, fmt.Sprintf("%d", bucket.Count)})
		}
		monthly.Render()
	}

	fmt.Printf("\nHotfix count: %d\n", analysis.HotfixCount)

	if len(analysis.RedFlags) > 0 {
		fmt.Println("\nRed flags:")
		for _, flag := range analysis.RedFlags {
			fmt.Printf("  - %s: %s (%d)\n", flag.Kind, flag.Subject, flag.Count)
		}
	}

	return nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
