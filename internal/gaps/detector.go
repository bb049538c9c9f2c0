package gaps

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// ActivityGap is a contiguous span with no observed commit activity, at
// or above the configured minimum duration. Derived and read-only.
type ActivityGap struct {
	StartDate    string `json:"start_date"` // last active day before the gap
	EndDate      string `json:"end_date"`   // first active day after the gap
	DurationDays int    `json:"duration_days"`
}

// Detect reports inactivity intervals of at least minGapDays (inclusive:
// a gap exactly equal to the threshold is reported). Input dates are
// deduplicated and sorted; only consecutive distinct-date pairs are
// examined. Nothing is inferred before the first or after the last
// observed date - absence of data outside the window is unknowable, not
// a gap. Dates that fail to parse as ISO calendar days are ignored.
func Detect(dates []string, minGapDays int) []ActivityGap {
	if minGapDays <= 0 || len(dates) < 2 {
		return nil
	}

	type day struct {
		iso string
		t   time.Time
	}

	seen := make(map[string]bool, len(dates))
	distinct := make([]day, 0, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		distinct = append(distinct, day{iso: d, t: t})
	}

	sort.Slice(distinct, func(i, j int) bool {
		return distinct[i].t.Before(distinct[j].t)
	})

	var gaps []ActivityGap
	for i := 0; i+1 < len(distinct); i++ {
		prev, next := distinct[i], distinct[i+1]
		gap := int(next.t.Sub(prev.t).Hours() / 24)
		if gap >= minGapDays {
			gaps = append(gaps, ActivityGap{
				StartDate:    prev.iso,
				EndDate:      next.iso,
				DurationDays: gap,
			})
		}
	}

	return gaps
}
