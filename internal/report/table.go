package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/commitlens/commitlens-go/internal/pipeline"
)

// WriteTables renders the result as terminal tables.
func WriteTables(w io.Writer, result *pipeline.Result) {
	fmt.Fprintf(w, "\nContributor review: %s\n", result.Author)
	if result.Since != "" || result.Until != "" {
		fmt.Fprintf(w, "Window: %s to %s\n", orOpen(result.Since), orOpen(result.Until))
	}
	fmt.Fprintln(w)

	if len(result.Commits) == 0 {
		fmt.Fprintln(w, "No activity in window.")
		return
	}

	totalAdded, totalDeleted := 0, 0
	for _, c := range result.Commits {
		totalAdded += c.Added
		totalDeleted += c.Deleted
	}

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.Append([]string{"Commits", fmt.Sprintf("%d", len(result.Commits))})
	summary.Append([]string{"Lines Added", fmt.Sprintf("%d", totalAdded)})
	summary.Append([]string{"Lines Deleted", fmt.Sprintf("%d", totalDeleted)})
	summary.Append([]string{"Pull Requests", fmt.Sprintf("%d", len(result.PRGroups))})
	summary.Append([]string{"Major PRs", fmt.Sprintf("%d", len(result.MajorPRs))})
	summary.Append([]string{"Activity Gaps", fmt.Sprintf("%d", len(result.Gaps))})
	if result.BugAnalysis != nil {
		summary.Append([]string{"Bug Commits", fmt.Sprintf("%d", len(result.BugAnalysis.Occurrences))})
		summary.Append([]string{"Hotfixes", fmt.Sprintf("%d", result.BugAnalysis.HotfixCount)})
	}
	summary.Render()

	if len(result.MajorPRs) > 0 {
		fmt.Fprintln(w, "\nMajor pull requests:")
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"PR", "Title", "Added", "Deleted", "Tier", "First", "Last"})
		for _, pr := range result.MajorPRs {
			table.Append([]string{
				fmt.Sprintf("#%d", pr.Number),
				pr.Title,
				fmt.Sprintf("%d", pr.TotalAdded),
				fmt.Sprintf("%d", pr.TotalDeleted),
				string(pr.Tier),
				pr.FirstDate,
				pr.LastDate,
			})
		}
		table.Render()
	}

	if len(result.Gaps) > 0 {
		fmt.Fprintln(w, "\nActivity gaps:")
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"From", "To", "Days"})
		for _, gap := range result.Gaps {
			table.Append([]string{gap.StartDate, gap.EndDate, fmt.Sprintf("%d", gap.DurationDays)})
		}
		table.Render()
	}

	if result.BugAnalysis != nil && len(result.BugAnalysis.RedFlags) > 0 {
		fmt.Fprintln(w, "\nRed flags:")
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Kind", "Subject", "Count"})
		for _, flag := range result.BugAnalysis.RedFlags {
			table.Append([]string{string(flag.Kind), flag.Subject, fmt.Sprintf("%d", flag.Count)})
		}
		table.Render()
	}
}
