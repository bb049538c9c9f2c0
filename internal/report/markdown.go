package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/commitlens/commitlens-go/internal/pipeline"
)

// WriteMarkdown renders a human-readable review report.
func WriteMarkdown(w io.Writer, result *pipeline.Result) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Contributor review: %s\n\n", result.Author))
	if result.Since != "" || result.Until != "" {
		sb.WriteString(fmt.Sprintf("Window: %s to %s\n\n", orOpen(result.Since), orOpen(result.Until)))
	}

	if len(result.Commits) == 0 {
		sb.WriteString("**No activity in window.**\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	totalAdded, totalDeleted := 0, 0
	for _, c := range result.Commits {
		totalAdded += c.Added
		totalDeleted += c.Deleted
	}
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- Commits: %d (+%d / -%d lines)\n", len(result.Commits), totalAdded, totalDeleted))
	sb.WriteString(fmt.Sprintf("- Pull requests: %d (%d major)\n", len(result.PRGroups), len(result.MajorPRs)))
	sb.WriteString(fmt.Sprintf("- Activity gaps: %d\n", len(result.Gaps)))
	if result.BugAnalysis != nil {
		sb.WriteString(fmt.Sprintf("- Bug-related commits: %d (%d hotfixes)\n", len(result.BugAnalysis.Occurrences), result.BugAnalysis.HotfixCount))
	}
	if result.SkippedLines > 0 {
		sb.WriteString(fmt.Sprintf("- Unparsed log lines: %d\n", result.SkippedLines))
	}
	sb.WriteString("\n")

	if len(result.MajorPRs) > 0 {
		sb.WriteString("## Major pull requests\n\n")
		sb.WriteString("| PR | Title | Lines | Tier | First | Last |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, pr := range result.MajorPRs {
			sb.WriteString(fmt.Sprintf("| #%d | %s | +%d/-%d | %s | %s | %s |\n",
				pr.Number, escapePipes(pr.Title), pr.TotalAdded, pr.TotalDeleted, pr.Tier, pr.FirstDate, pr.LastDate))
		}
		sb.WriteString("\n")
	}

	if len(result.Gaps) > 0 {
		sb.WriteString("## Activity gaps\n\n")
		for _, gap := range result.Gaps {
			sb.WriteString(fmt.Sprintf("- %s to %s (%d days)\n", gap.StartDate, gap.EndDate, gap.DurationDays))
		}
		sb.WriteString("\n")
	}

	if result.BugAnalysis != nil && len(result.BugAnalysis.Occurrences) > 0 {
		sb.WriteString("## Bug patterns\n\n")

		if len(result.BugAnalysis.Monthly) > 0 {
			sb.WriteString("Monthly bug-related commits:\n\n")
			for _, bucket := range result.BugAnalysis.Monthly {
				sb.WriteString(fmt.Sprintf("- %s: %d\n", bucket.Month, bucket.Count))
			}
			sb.WriteString("\n")
		}

		if len(result.BugAnalysis.RedFlags) > 0 {
			sb.WriteString("Red flags:\n\n")
			for _, flag := range result.BugAnalysis.RedFlags {
				sb.WriteString(fmt.Sprintf("- **%s**: %s (%d)\n", flag.Kind, flag.Subject, flag.Count))
			}
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func orOpen(date string) string {
	if date == "" {
		return "(open)"
	}
	return date
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
