package bugs

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/commitlens/commitlens-go/internal/errors"
	"github.com/commitlens/commitlens-go/internal/gitlog"
	"github.com/commitlens/commitlens-go/internal/history"
)

// BugOccurrence is one bug-related commit with its category labels.
type BugOccurrence struct {
	Commit     history.CommitRecord `json:"commit"`
	Categories []string             `json:"categories"`
	IsHotfix   bool                 `json:"is_hotfix"`
}

// MonthlyBucket counts bug-related commits for one observed month.
type MonthlyBucket struct {
	Month string `json:"month"` // "YYYY-MM"
	Count int    `json:"count"`
}

// RedFlagKind labels a derived quality signal.
type RedFlagKind string

const (
	FlagRecurringCategory RedFlagKind = "recurring_category"
	FlagHighHotfixCount   RedFlagKind = "high_hotfix_count"
	FlagBugClustering     RedFlagKind = "bug_clustering"
)

// Red flag thresholds, all inclusive.
const (
	recurringCategoryMin = 3
	highHotfixMin        = 5
	clusteringMonthMin   = 5
)

// RedFlag is a derived signal worth reviewer attention.
type RedFlag struct {
	Kind    RedFlagKind `json:"kind"`
	Subject string      `json:"subject"` // category name or month key
	Count   int         `json:"count"`
}

// Analysis is the full output of one bug-pattern pass.
type Analysis struct {
	Occurrences []BugOccurrence `json:"occurrences"`
	HotfixCount int             `json:"hotfix_count"`
	Monthly     []MonthlyBucket `json:"monthly"`
	RedFlags    []RedFlag       `json:"red_flags"`
}

// Options configure an analysis pass. Zero values fall back to the
// built-in keyword set, rule set, and release pattern.
type Options struct {
	Keywords             []string
	Rules                []CategoryRule
	ReleaseBranchPattern string
	Workers              int // concurrent branch-containment queries
}

// Analyzer classifies bug-related commits and derives quality signals.
// It is a pure classify-then-aggregate pipeline; the only suspension
// point is the per-commit branch containment query.
type Analyzer struct {
	keywords []string
	rules    []CategoryRule
	pattern  string
	workers  int
}

// NewAnalyzer creates an Analyzer from opts, filling in defaults.
func NewAnalyzer(opts Options) *Analyzer {
	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}

	rules := opts.Rules
	if len(rules) == 0 {
		rules = DefaultRules
	}

	pattern := opts.ReleaseBranchPattern
	if pattern == "" {
		pattern = "release"
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	return &Analyzer{
		keywords: lowered,
		rules:    rules,
		pattern:  pattern,
		workers:  workers,
	}
}

// Analyze runs the full pass over commits. checker may be nil, in which
// case hotfix detection is skipped and every occurrence reports
// IsHotfix=false. A failing containment query aborts the whole analysis:
// partial hotfix data would make runs incomparable.
func (a *Analyzer) Analyze(ctx context.Context, commits []history.CommitRecord, checker gitlog.BranchChecker) (*Analysis, error) {
	analysis := &Analysis{
		Occurrences: []BugOccurrence{},
		Monthly:     []MonthlyBucket{},
		RedFlags:    []RedFlag{},
	}

	var bugCommits []history.CommitRecord
	for _, c := range commits {
		if a.isBugRelated(c.Message) {
			bugCommits = append(bugCommits, c)
		}
	}
	if len(bugCommits) == 0 {
		return analysis, nil
	}

	hotfix, err := a.detectHotfixes(ctx, bugCommits, checker)
	if err != nil {
		return nil, err
	}

	for i, c := range bugCommits {
		occ := BugOccurrence{
			Commit:     c,
			Categories: a.categorize(c.Message),
			IsHotfix:   hotfix[i],
		}
		if occ.IsHotfix {
			analysis.HotfixCount++
		}
		analysis.Occurrences = append(analysis.Occurrences, occ)
	}

	analysis.Monthly = bucketByMonth(bugCommits)
	analysis.RedFlags = a.deriveRedFlags(analysis)

	return analysis, nil
}

func (a *Analyzer) isBugRelated(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range a.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// categorize tests every rule independently; matches are non-exclusive.
// No rule hit means the General fallback.
func (a *Analyzer) categorize(message string) []string {
	var categories []string
	seen := make(map[string]bool)
	for _, rule := range a.rules {
		if rule.Pattern.MatchString(message) && !seen[rule.Category] {
			seen[rule.Category] = true
			categories = append(categories, rule.Category)
		}
	}
	if len(categories) == 0 {
		categories = []string{GeneralCategory}
	}
	return categories
}

// detectHotfixes runs one containment query per bug commit. Queries are
// independent and read-only, so they run concurrently with a bounded
// group; results land in a positional slice so the merge stays
// deterministic regardless of completion order.
func (a *Analyzer) detectHotfixes(ctx context.Context, bugCommits []history.CommitRecord, checker gitlog.BranchChecker) ([]bool, error) {
	hotfix := make([]bool, len(bugCommits))
	if checker == nil {
		return hotfix, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, c := range bugCommits {
		i, hash := i, c.Hash
		g.Go(func() error {
			contained, err := checker.BranchContains(gctx, hash, a.pattern)
			if err != nil {
				return errors.Wrapf(err, errors.ErrorTypeExternal, "branch containment query for %s", hash)
			}
			hotfix[i] = contained
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hotfix, nil
}

// bucketByMonth groups bug commits by the "YYYY-MM" prefix of their
// date, chronologically ordered. Lexicographic order is chronological
// for fixed-width ISO month keys.
func bucketByMonth(bugCommits []history.CommitRecord) []MonthlyBucket {
	counts := make(map[string]int)
	for _, c := range bugCommits {
		if len(c.Date) < 7 {
			continue
		}
		counts[c.Date[:7]]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	buckets := make([]MonthlyBucket, 0, len(months))
	for _, m := range months {
		buckets = append(buckets, MonthlyBucket{Month: m, Count: counts[m]})
	}
	return buckets
}

// deriveRedFlags applies the inclusive thresholds over the finished
// aggregation. Flag order is deterministic: categories in rule order
// (General last), then hotfix, then months chronologically.
func (a *Analyzer) deriveRedFlags(analysis *Analysis) []RedFlag {
	flags := []RedFlag{}

	categoryCounts := make(map[string]int)
	for _, occ := range analysis.Occurrences {
		for _, cat := range occ.Categories {
			categoryCounts[cat]++
		}
	}

	for _, rule := range a.rules {
		if n := categoryCounts[rule.Category]; n >= recurringCategoryMin {
			flags = append(flags, RedFlag{Kind: FlagRecurringCategory, Subject: rule.Category, Count: n})
			delete(categoryCounts, rule.Category)
		}
	}
	if n := categoryCounts[GeneralCategory]; n >= recurringCategoryMin {
		flags = append(flags, RedFlag{Kind: FlagRecurringCategory, Subject: GeneralCategory, Count: n})
	}

	if analysis.HotfixCount >= highHotfixMin {
		flags = append(flags, RedFlag{Kind: FlagHighHotfixCount, Subject: "hotfixes", Count: analysis.HotfixCount})
	}

	for _, bucket := range analysis.Monthly {
		if bucket.Count >= clusteringMonthMin {
			flags = append(flags, RedFlag{Kind: FlagBugClustering, Subject: bucket.Month, Count: bucket.Count})
		}
	}

	return flags
}
