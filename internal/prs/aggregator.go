package prs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/commitlens/commitlens-go/internal/history"
)

// PullRequestGroup is the set of commits whose messages reference the
// same merge-request number. Created on first sighting of a number,
// grown by every later matching commit, never removed within a run.
type PullRequestGroup struct {
	Number       int                    `json:"number"`
	Title        string                 `json:"title"`
	Commits      []history.CommitRecord `json:"commits"`
	FirstDate    string                 `json:"first_date"`
	LastDate     string                 `json:"last_date"`
	TotalAdded   int                    `json:"total_added"`
	TotalDeleted int                    `json:"total_deleted"`
}

// TotalLines returns the group's total changed-line count
func (g *PullRequestGroup) TotalLines() int {
	return g.TotalAdded + g.TotalDeleted
}

// MatcherRule recognizes a PR reference in a commit message. Capture
// group 1 must be the PR number; an optional group 2 is the PR title.
type MatcherRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultMatchers is the ordered recognition rule list. Rules are tried
// in sequence and the first successful match wins. This is a lossy
// heuristic over free text: a message referencing several PR numbers is
// attributed to whichever rule (and number) hits first, a known source
// of misattribution that is documented rather than second-guessed.
var DefaultMatchers = []MatcherRule{
	{
		Name:    "merged-pr",
		Pattern: regexp.MustCompile(`(?i)merged\s+(?:in\s+)?pr\s*#?\s*(\d+)(?:\s*[:\-]\s*(.+))?`),
	},
	{
		Name:    "merge-pull-request",
		Pattern: regexp.MustCompile(`(?i)merge\s+pull\s+request\s+#(\d+)`),
	},
	{
		Name:    "squash-suffix",
		Pattern: regexp.MustCompile(`\(#(\d+)\)\s*$`),
	},
}

// Aggregator correlates commits into PR groups.
type Aggregator struct {
	matchers []MatcherRule
}

// NewAggregator creates an Aggregator with the given rules, or the
// defaults when none are supplied.
func NewAggregator(matchers []MatcherRule) *Aggregator {
	if len(matchers) == 0 {
		matchers = DefaultMatchers
	}
	return &Aggregator{matchers: matchers}
}

// Aggregate groups commits by PR number. Groups come back in
// first-sighting order; commits within each group keep input order.
// Commits matching no rule belong to no group. The operation is a pure
// function of the commit list, so rerunning it yields equal groups.
func (a *Aggregator) Aggregate(commits []history.CommitRecord) []*PullRequestGroup {
	byNumber := make(map[int]*PullRequestGroup)
	var ordered []*PullRequestGroup

	for _, commit := range commits {
		number, title, ok := a.match(commit.Message)
		if !ok {
			continue
		}

		group, exists := byNumber[number]
		if !exists {
			group = &PullRequestGroup{
				Number:    number,
				Title:     title,
				FirstDate: commit.Date,
				LastDate:  commit.Date,
			}
			byNumber[number] = group
			ordered = append(ordered, group)
		}

		group.Commits = append(group.Commits, commit)
		group.TotalAdded += commit.Added
		group.TotalDeleted += commit.Deleted

		// Lexicographic comparison is valid only for fixed-width
		// zero-padded ISO dates; the parser guarantees that shape
		if commit.Date < group.FirstDate {
			group.FirstDate = commit.Date
		}
		if commit.Date > group.LastDate {
			group.LastDate = commit.Date
		}
	}

	return ordered
}

// match runs the ordered rule list; first hit wins.
func (a *Aggregator) match(message string) (number int, title string, ok bool) {
	for _, rule := range a.matchers {
		m := rule.Pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		title = message
		if len(m) > 2 && strings.TrimSpace(m[2]) != "" {
			title = strings.TrimSpace(m[2])
		}
		return n, title, true
	}
	return 0, "", false
}
