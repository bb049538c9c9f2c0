package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The threshold boundary is inclusive: a gap of exactly minGapDays is
// reported, one day less is not.
func TestDetect_Boundary(t *testing.T) {
	gaps := Detect([]string{"2024-01-01", "2024-01-15"}, 14)
	require.Len(t, gaps, 1)
	assert.Equal(t, "2024-01-01", gaps[0].StartDate)
	assert.Equal(t, "2024-01-15", gaps[0].EndDate)
	assert.Equal(t, 14, gaps[0].DurationDays)

	gaps = Detect([]string{"2024-01-01", "2024-01-14"}, 14)
	assert.Empty(t, gaps)
}

func TestDetect_UnsortedWithDuplicates(t *testing.T) {
	dates := []string{
		"2024-03-20",
		"2024-01-05",
		"2024-01-05", // duplicate day, multiple commits
		"2024-01-06",
		"2024-02-01",
	}

	gaps := Detect(dates, 14)
	require.Len(t, gaps, 2)

	assert.Equal(t, "2024-01-06", gaps[0].StartDate)
	assert.Equal(t, "2024-02-01", gaps[0].EndDate)
	assert.Equal(t, 26, gaps[0].DurationDays)

	assert.Equal(t, "2024-02-01", gaps[1].StartDate)
	assert.Equal(t, "2024-03-20", gaps[1].EndDate)
	assert.Equal(t, 48, gaps[1].DurationDays)
}

// No gap is inferred before the first or after the last observed date.
func TestDetect_NoEdgeGaps(t *testing.T) {
	gaps := Detect([]string{"2024-06-01"}, 1)
	assert.Empty(t, gaps)

	gaps = Detect([]string{"2024-06-01", "2024-06-02"}, 5)
	assert.Empty(t, gaps)
}

func TestDetect_Empty(t *testing.T) {
	assert.Empty(t, Detect(nil, 14))
	assert.Empty(t, Detect([]string{}, 14))
}

func TestDetect_UnparseableDatesIgnored(t *testing.T) {
	gaps := Detect([]string{"2024-01-01", "not-a-date", "2024-01-20"}, 14)
	require.Len(t, gaps, 1)
	assert.Equal(t, 19, gaps[0].DurationDays)
}
