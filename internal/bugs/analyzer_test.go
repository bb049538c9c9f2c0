package bugs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitlens/commitlens-go/internal/history"
)

// fakeChecker answers containment queries from a fixed hash set.
type fakeChecker struct {
	contained map[string]bool
	err       error
}

func (f *fakeChecker) BranchContains(ctx context.Context, hash, pattern string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.contained[hash], nil
}

func bugCommit(hash, date, message string) history.CommitRecord {
	return history.CommitRecord{Hash: hash, Date: date, Message: message}
}

// A message touching several category vocabularies lands in all of them.
func TestAnalyze_NonExclusiveCategories(t *testing.T) {
	commits := []history.CommitRecord{
		bugCommit("a1", "2024-01-10", "Fix null reference in login, related to auth cookie"),
	}

	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), commits, nil)
	require.NoError(t, err)
	require.Len(t, analysis.Occurrences, 1)

	cats := analysis.Occurrences[0].Categories
	assert.Contains(t, cats, "NullReference")
	assert.Contains(t, cats, "Authentication")
	assert.NotContains(t, cats, GeneralCategory)
}

func TestAnalyze_GeneralFallback(t *testing.T) {
	commits := []history.CommitRecord{
		bugCommit("a1", "2024-01-10", "Fix weird edge case nobody understands"),
	}

	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), commits, nil)
	require.NoError(t, err)
	require.Len(t, analysis.Occurrences, 1)
	assert.Equal(t, []string{GeneralCategory}, analysis.Occurrences[0].Categories)
}

func TestAnalyze_KeywordFilter(t *testing.T) {
	commits := []history.CommitRecord{
		bugCommit("a1", "2024-01-10", "Fix payment rounding"),
		bugCommit("a2", "2024-01-11", "Add dashboard widgets"),
		bugCommit("a3", "2024-01-12", "Resolve crash on startup"),
	}

	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), commits, nil)
	require.NoError(t, err)
	assert.Len(t, analysis.Occurrences, 2)
}

func TestAnalyze_KeywordOverride(t *testing.T) {
	commits := []history.CommitRecord{
		bugCommit("a1", "2024-01-10", "Fix payment rounding"),
		bugCommit("a2", "2024-01-11", "Oops, revert bad merge"),
	}

	analysis, err := NewAnalyzer(Options{Keywords: []string{"oops"}}).Analyze(context.Background(), commits, nil)
	require.NoError(t, err)
	require.Len(t, analysis.Occurrences, 1)
	assert.Equal(t, "a2", analysis.Occurrences[0].Commit.Hash)
}

// A category seen exactly 3 times flags; 2 does not.
func TestAnalyze_RecurringCategoryBoundary(t *testing.T) {
	three := []history.CommitRecord{
		bugCommit("a1", "2024-01-10", "Fix payment rounding"),
		bugCommit("a2", "2024-02-10", "Bug in payment capture"),
		bugCommit("a3", "2024-03-10", "Fix refund double-send"),
	}

	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), three, nil)
	require.NoError(t, err)
	require.Len(t, analysis.RedFlags, 1)
	assert.Equal(t, FlagRecurringCategory, analysis.RedFlags[0].Kind)
	assert.Equal(t, "Payment", analysis.RedFlags[0].Subject)
	assert.Equal(t, 3, analysis.RedFlags[0].Count)

	analysis, err = NewAnalyzer(Options{}).Analyze(context.Background(), three[:2], nil)
	require.NoError(t, err)
	assert.Empty(t, analysis.RedFlags)
}

func TestAnalyze_HotfixDetection(t *testing.T) {
	commits := []history.CommitRecord{
		bugCommit("a1", "2024-01-10", "Fix payment rounding"),
		bugCommit("a2", "2024-01-11", "Fix token refresh"),
		bugCommit("a3", "2024-01-12", "Fix crash in exporter"),
	}
	checker := &fakeChecker{contained: map[string]bool{"a1": true, "a3": true}}

	analysis, err := NewAnalyzer(Options{Workers: 2}).Analyze(context.Background(), commits, checker)
	require.NoError(t, err)
	require.Len(t, analysis.Occurrences, 3)

	// Merge is positional: occurrence order matches commit order no
	// matter how the concurrent queries complete
	assert.True(t, analysis.Occurrences[0].IsHotfix)
	assert.False(t, analysis.Occurrences[1].IsHotfix)
	assert.True(t, analysis.Occurrences[2].IsHotfix)
	assert.Equal(t, 2, analysis.HotfixCount)
}

func TestAnalyze_HotfixQueryFailureIsFatal(t *testing.T) {
	commits := []history.CommitRecord{
		bugCommit("a1", "2024-01-10", "Fix payment rounding"),
	}
	checker := &fakeChecker{err: fmt.Errorf("git: repository handle lost")}

	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), commits, checker)
	assert.Error(t, err)
	assert.Nil(t, analysis)
}

func TestAnalyze_HighHotfixCountFlag(t *testing.T) {
	var commits []history.CommitRecord
	contained := make(map[string]bool)
	for i := 0; i < 5; i++ {
		hash := fmt.Sprintf("h%d", i)
		commits = append(commits, bugCommit(hash, "2024-01-10", fmt.Sprintf("Hotfix: patch outage %d", i)))
		contained[hash] = true
	}

	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), commits, &fakeChecker{contained: contained})
	require.NoError(t, err)
	assert.Equal(t, 5, analysis.HotfixCount)

	var kinds []RedFlagKind
	for _, f := range analysis.RedFlags {
		kinds = append(kinds, f.Kind)
	}
	assert.Contains(t, kinds, FlagHighHotfixCount)
}

func TestAnalyze_MonthlyBucketsAndClustering(t *testing.T) {
	commits := []history.CommitRecord{
		bugCommit("a1", "2024-03-01", "Fix a"),
		bugCommit("a2", "2024-03-05", "Fix b"),
		bugCommit("a3", "2024-03-09", "Fix c"),
		bugCommit("a4", "2024-03-14", "Fix d"),
		bugCommit("a5", "2024-03-21", "Fix e"),
		bugCommit("a6", "2024-01-02", "Fix f"),
	}

	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), commits, nil)
	require.NoError(t, err)

	require.Len(t, analysis.Monthly, 2)
	assert.Equal(t, MonthlyBucket{Month: "2024-01", Count: 1}, analysis.Monthly[0])
	assert.Equal(t, MonthlyBucket{Month: "2024-03", Count: 5}, analysis.Monthly[1])

	var clustering []RedFlag
	for _, f := range analysis.RedFlags {
		if f.Kind == FlagBugClustering {
			clustering = append(clustering, f)
		}
	}
	require.Len(t, clustering, 1)
	assert.Equal(t, "2024-03", clustering[0].Subject)
	assert.Equal(t, 5, clustering[0].Count)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	analysis, err := NewAnalyzer(Options{}).Analyze(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, analysis.Occurrences)
	assert.Zero(t, analysis.HotfixCount)
	assert.Empty(t, analysis.Monthly)
	assert.Empty(t, analysis.RedFlags)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `rules:
  - category: Caching
    pattern: cache|stale|evict
  - category: Migrations
    pattern: migration|schema
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Caching", rules[0].Category)
	assert.True(t, rules[0].Pattern.MatchString("Fix stale CACHE entry"))

	analysis, err := NewAnalyzer(Options{Rules: rules}).Analyze(context.Background(),
		[]history.CommitRecord{bugCommit("a1", "2024-01-10", "Fix stale cache entry")}, nil)
	require.NoError(t, err)
	require.Len(t, analysis.Occurrences, 1)
	assert.Equal(t, []string{"Caching"}, analysis.Occurrences[0].Categories)
}

func TestLoadRules_Invalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0644))
	_, err := LoadRules(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "badpattern.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - category: X\n    pattern: '['\n"), 0644))
	_, err = LoadRules(path)
	assert.Error(t, err)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
