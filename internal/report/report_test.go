package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitlens/commitlens-go/internal/bugs"
	"github.com/commitlens/commitlens-go/internal/gaps"
	"github.com/commitlens/commitlens-go/internal/history"
	"github.com/commitlens/commitlens-go/internal/pipeline"
	"github.com/commitlens/commitlens-go/internal/prs"
)

func sampleResult() *pipeline.Result {
	group := &prs.PullRequestGroup{
		Number:       100,
		Title:        "Payment retries",
		FirstDate:    "2024-01-02",
		LastDate:     "2024-01-20",
		TotalAdded:   400,
		TotalDeleted: 150,
	}
	return &pipeline.Result{
		Author:      "dev@example.com",
		Since:       "2024-01-01",
		Until:       "2024-06-30",
		GeneratedAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Commits: []history.CommitRecord{
			{Hash: "aaa111", Date: "2024-01-02", Message: "Merged PR 100: Payment retries", Added: 400, Deleted: 150},
		},
		PRGroups: []*prs.PullRequestGroup{group},
		MajorPRs: []prs.MajorPR{{PullRequestGroup: group, Tier: prs.TierVeryHigh}},
		Gaps:     []gaps.ActivityGap{{StartDate: "2024-01-02", EndDate: "2024-01-20", DurationDays: 18}},
		BugAnalysis: &bugs.Analysis{
			Occurrences: []bugs.BugOccurrence{},
			Monthly:     []bugs.MonthlyBucket{},
			RedFlags:    []bugs.RedFlag{},
		},
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "# Contributor review: dev@example.com")
	assert.Contains(t, out, "Window: 2024-01-01 to 2024-06-30")
	assert.Contains(t, out, "| #100 | Payment retries | +400/-150 | Very High |")
	assert.Contains(t, out, "2024-01-02 to 2024-01-20 (18 days)")
}

func TestWriteMarkdown_NoActivity(t *testing.T) {
	var buf bytes.Buffer
	result := &pipeline.Result{Author: "ghost@example.com"}
	require.NoError(t, WriteMarkdown(&buf, result))
	assert.Contains(t, buf.String(), "No activity in window.")
}

func TestWriteTables(t *testing.T) {
	var buf bytes.Buffer
	WriteTables(&buf, sampleResult())

	out := buf.String()
	assert.Contains(t, out, "Payment retries")
	assert.Contains(t, out, "Very High")
}

func TestSnapshotRoundTrip(t *testing.T) {
	data, err := MarshalResult(sampleResult())
	require.NoError(t, err)

	restored, err := UnmarshalResult(data)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", restored.Author)
	require.Len(t, restored.MajorPRs, 1)
	assert.Equal(t, prs.TierVeryHigh, restored.MajorPRs[0].Tier)
	assert.Len(t, restored.Gaps, 1)
}
