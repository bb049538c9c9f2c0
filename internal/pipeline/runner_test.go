package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitlens/commitlens-go/internal/errors"
	"github.com/commitlens/commitlens-go/internal/logging"
)

type fakeSource struct {
	lines []string
	err   error
}

func (f *fakeSource) QueryCommits(ctx context.Context, author, since, until string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lines, nil
}

type fakeChecker struct {
	contained map[string]bool
}

func (f *fakeChecker) BranchContains(ctx context.Context, hash, pattern string) (bool, error) {
	return f.contained[hash], nil
}

func defaultOptions() Options {
	return Options{
		Author:     "dev@example.com",
		Since:      "2024-01-01",
		Until:      "2024-06-30",
		MinLines:   100,
		MinGapDays: 14,
	}
}

// An author with no commits in the window is a success with empty
// collections everywhere, not an error.
func TestRun_EmptyWindow(t *testing.T) {
	runner := NewRunner(&fakeSource{}, nil, logging.Discard())

	result, err := runner.Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	assert.NotNil(t, result.Commits)
	assert.Empty(t, result.Commits)
	assert.NotNil(t, result.PRGroups)
	assert.Empty(t, result.PRGroups)
	assert.NotNil(t, result.MajorPRs)
	assert.Empty(t, result.MajorPRs)
	assert.NotNil(t, result.Gaps)
	assert.Empty(t, result.Gaps)

	require.NotNil(t, result.BugAnalysis)
	assert.Empty(t, result.BugAnalysis.Occurrences)
	assert.Zero(t, result.BugAnalysis.HotfixCount)
	assert.Empty(t, result.BugAnalysis.Monthly)
	assert.Empty(t, result.BugAnalysis.RedFlags)
}

func TestRun_EndToEnd(t *testing.T) {
	log := `aaa111|2024-01-02|Merged PR 100: Payment retries
40	5	internal/pay/retry.go
10	5	internal/pay/retry_test.go

bbb222|2024-01-20|Merged PR 100
5	1	internal/pay/retry.go

ccc333|2024-01-21|Fix null deref in login handler
3	1	internal/auth/login.go`

	source := &fakeSource{lines: strings.Split(log, "\n")}
	checker := &fakeChecker{contained: map[string]bool{"ccc333": true}}
	runner := NewRunner(source, checker, logging.Discard())

	opts := defaultOptions()
	opts.DetectHotfixes = true
	result, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Commits, 3)

	// PR 100 group spans both member commits
	require.Len(t, result.PRGroups, 1)
	g := result.PRGroups[0]
	assert.Equal(t, 100, g.Number)
	assert.Equal(t, 55, g.TotalAdded)
	assert.Equal(t, 11, g.TotalDeleted)
	assert.Equal(t, "2024-01-02", g.FirstDate)
	assert.Equal(t, "2024-01-20", g.LastDate)

	// 66 lines total is below the 100-line threshold
	assert.Empty(t, result.MajorPRs)

	// Jan 2 -> Jan 20 is 18 days of silence
	require.Len(t, result.Gaps, 1)
	assert.Equal(t, 18, result.Gaps[0].DurationDays)

	require.Len(t, result.BugAnalysis.Occurrences, 1)
	occ := result.BugAnalysis.Occurrences[0]
	assert.Equal(t, "ccc333", occ.Commit.Hash)
	assert.Contains(t, occ.Categories, "NullReference")
	assert.Contains(t, occ.Categories, "Authentication")
	assert.True(t, occ.IsHotfix)
	assert.Equal(t, 1, result.BugAnalysis.HotfixCount)
}

// A failing git query aborts the run with no partial result.
func TestRun_QueryFailureIsFatal(t *testing.T) {
	source := &fakeSource{err: errors.ExternalError(fmt.Errorf("exit status 128"), "git log failed")}
	runner := NewRunner(source, nil, logging.Discard())

	result, err := runner.Run(context.Background(), defaultOptions())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.IsExternal(err))
}

func TestRun_ValidatesInput(t *testing.T) {
	runner := NewRunner(&fakeSource{}, nil, logging.Discard())

	opts := defaultOptions()
	opts.Author = ""
	_, err := runner.Run(context.Background(), opts)
	assert.Error(t, err)

	opts = defaultOptions()
	opts.Since = "01/02/2024"
	_, err = runner.Run(context.Background(), opts)
	assert.Error(t, err)

	opts = defaultOptions()
	opts.Until = "2024-6-3"
	_, err = runner.Run(context.Background(), opts)
	assert.Error(t, err)
}

// Hotfix detection stays off unless asked for, even with a checker wired.
func TestRun_HotfixDetectionToggle(t *testing.T) {
	log := `aaa111|2024-01-02|Fix crash on shutdown
1	1	main.go`
	source := &fakeSource{lines: strings.Split(log, "\n")}
	checker := &fakeChecker{contained: map[string]bool{"aaa111": true}}
	runner := NewRunner(source, checker, logging.Discard())

	result, err := runner.Run(context.Background(), defaultOptions())
	require.NoError(t, err)
	require.Len(t, result.BugAnalysis.Occurrences, 1)
	assert.False(t, result.BugAnalysis.Occurrences[0].IsHotfix)
}
