package prs

import (
	"sort"
	"strings"
)

// Tier is the discrete complexity label assigned to a major PR.
type Tier string

const (
	TierVeryHigh Tier = "Very High"
	TierHigh     Tier = "High"
	TierMedium   Tier = "Medium"
	TierLow      Tier = "Low"
)

// Fixed tier breakpoints; the exact boundaries are part of the contract.
const (
	veryHighLines = 500
	highLines     = 200
	mediumLines   = 100
)

// MajorPR is a PR group selected for review attention, with its tier.
type MajorPR struct {
	*PullRequestGroup
	Tier Tier `json:"tier"`

	// KeywordMatch is set when the PR was selected by title keyword
	// rather than (or in addition to) size
	KeywordMatch bool `json:"keyword_match,omitempty"`
}

// TierFor maps a total changed-line count onto a tier.
func TierFor(totalLines int) Tier {
	switch {
	case totalLines >= veryHighLines:
		return TierVeryHigh
	case totalLines >= highLines:
		return TierHigh
	case totalLines >= mediumLines:
		return TierMedium
	default:
		return TierLow
	}
}

// ClassifyMajor selects PR groups that are either at or above the
// minLines threshold or whose title contains any keyword
// (case-insensitive) - a union, not an intersection. The result is
// sorted by total changed lines descending; ties keep insertion order.
func ClassifyMajor(groups []*PullRequestGroup, minLines int, keywords []string) []MajorPR {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}

	var major []MajorPR
	for _, group := range groups {
		bySize := group.TotalLines() >= minLines
		byKeyword := titleMatches(group.Title, lowered)
		if !bySize && !byKeyword {
			continue
		}
		major = append(major, MajorPR{
			PullRequestGroup: group,
			Tier:             TierFor(group.TotalLines()),
			KeywordMatch:     byKeyword,
		})
	}

	sort.SliceStable(major, func(i, j int) bool {
		return major[i].TotalLines() > major[j].TotalLines()
	})

	return major
}

func titleMatches(title string, loweredKeywords []string) bool {
	lowered := strings.ToLower(title)
	for _, kw := range loweredKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
