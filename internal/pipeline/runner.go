package pipeline

import (
	"context"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/commitlens/commitlens-go/internal/bugs"
	"github.com/commitlens/commitlens-go/internal/errors"
	"github.com/commitlens/commitlens-go/internal/gaps"
	"github.com/commitlens/commitlens-go/internal/gitlog"
	"github.com/commitlens/commitlens-go/internal/history"
	"github.com/commitlens/commitlens-go/internal/prs"
)

var windowDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Options shape one mining run. Author and the date window come from the
// CLI; thresholds and keyword lists from config.
type Options struct {
	Author string
	Since  string // "YYYY-MM-DD", optional
	Until  string // "YYYY-MM-DD", optional

	MinLines      int
	MinGapDays    int
	MajorKeywords []string

	BugKeywords          []string
	CategoryRules        []bugs.CategoryRule
	ReleaseBranchPattern string
	HotfixWorkers        int

	// DetectHotfixes toggles the per-commit branch containment queries;
	// off they are the only per-commit round trips to git
	DetectHotfixes bool
}

// Result is the full in-memory output of one run, consumed by the
// report renderers and the run store. Collections are empty, never nil,
// so an author with no activity serializes as empty lists rather than
// nulls - explicitly distinguishable from a failed query, which yields
// no Result at all.
type Result struct {
	Author      string    `json:"author"`
	Since       string    `json:"since,omitempty"`
	Until       string    `json:"until,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Commits      []history.CommitRecord  `json:"commits"`
	PRGroups     []*prs.PullRequestGroup `json:"pr_groups"`
	MajorPRs     []prs.MajorPR           `json:"major_prs"`
	Gaps         []gaps.ActivityGap      `json:"gaps"`
	BugAnalysis  *bugs.Analysis          `json:"bug_analysis"`
	SkippedLines int                     `json:"skipped_lines,omitempty"`
}

// Runner wires the extractor boundary to the pure transformation chain:
// query -> parse -> {aggregate, classify, gaps, bugs}. Strictly
// sequential; state is local to each stage.
type Runner struct {
	source  gitlog.HistorySource
	checker gitlog.BranchChecker
	logger  *logrus.Logger
}

// NewRunner creates a Runner. checker may be nil when hotfix detection
// is disabled.
func NewRunner(source gitlog.HistorySource, checker gitlog.BranchChecker, logger *logrus.Logger) *Runner {
	return &Runner{source: source, checker: checker, logger: logger}
}

// Run executes one full batch recomputation. A failing git query aborts
// atomically: no partial downstream structures are surfaced.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Author == "" {
		return nil, errors.ValidationError("author is required")
	}
	if opts.Since != "" && !windowDateRe.MatchString(opts.Since) {
		return nil, errors.ValidationErrorf("since must be YYYY-MM-DD, got %q", opts.Since)
	}
	if opts.Until != "" && !windowDateRe.MatchString(opts.Until) {
		return nil, errors.ValidationErrorf("until must be YYYY-MM-DD, got %q", opts.Until)
	}

	r.logger.WithFields(logrus.Fields{
		"author": opts.Author,
		"since":  opts.Since,
		"until":  opts.Until,
	}).Debug("querying commit history")

	lines, err := r.source.QueryCommits(ctx, opts.Author, opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	parsed := history.Parse(lines)
	if parsed.SkippedLines > 0 {
		r.logger.WithField("skipped_lines", parsed.SkippedLines).Warn("log stream contained unrecognized lines")
	}
	r.logger.WithField("commits", len(parsed.Commits)).Debug("parsed commit history")

	groups := prs.NewAggregator(nil).Aggregate(parsed.Commits)
	major := prs.ClassifyMajor(groups, opts.MinLines, opts.MajorKeywords)

	dates := make([]string, 0, len(parsed.Commits))
	for _, c := range parsed.Commits {
		dates = append(dates, c.Date)
	}
	activityGaps := gaps.Detect(dates, opts.MinGapDays)

	checker := r.checker
	if !opts.DetectHotfixes {
		checker = nil
	}
	analyzer := bugs.NewAnalyzer(bugs.Options{
		Keywords:             opts.BugKeywords,
		Rules:                opts.CategoryRules,
		ReleaseBranchPattern: opts.ReleaseBranchPattern,
		Workers:              opts.HotfixWorkers,
	})
	analysis, err := analyzer.Analyze(ctx, parsed.Commits, checker)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Author:       opts.Author,
		Since:        opts.Since,
		Until:        opts.Until,
		GeneratedAt:  time.Now().UTC(),
		Commits:      parsed.Commits,
		PRGroups:     groups,
		MajorPRs:     major,
		Gaps:         activityGaps,
		BugAnalysis:  analysis,
		SkippedLines: parsed.SkippedLines,
	}

	// Collections stay empty, never nil
	if result.Commits == nil {
		result.Commits = []history.CommitRecord{}
	}
	if result.PRGroups == nil {
		result.PRGroups = []*prs.PullRequestGroup{}
	}
	if result.MajorPRs == nil {
		result.MajorPRs = []prs.MajorPR{}
	}
	if result.Gaps == nil {
		result.Gaps = []gaps.ActivityGap{}
	}

	return result, nil
}
