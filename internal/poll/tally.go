package poll

import (
	"math"
	"strings"

	"github.com/saxenaaman628/wfh-poll/internal/models"
)

const (
	BarLength = 10
	BarEmpty  = "░"
)

// Tally is derived from the stored votes every time a poll is rendered.
type Tally struct {
	Counts []int
	Voters [][]string
	Total  int
}

// Count tallies votes for a poll with numOptions options. index maps a stored
// vote to an option; votes it rejects, and indexes out of range, are skipped.
func Count(votes []models.Vote, numOptions int, index func(models.Vote) (int, bool)) Tally {
	t := Tally{
		Counts: make([]int, numOptions),
		Voters: make([][]string, numOptions),
	}
	for _, v := range votes {
		idx, ok := index(v)
		if !ok || idx < 0 || idx >= numOptions {
			continue
		}
		t.Counts[idx]++
		t.Voters[idx] = append(t.Voters[idx], v.UserID)
		t.Total++
	}
	return t
}

// Percent is the rounded share of option i. Shares are rounded
// independently, so they do not always add up to 100.
func (t Tally) Percent(i int) int {
	if t.Total == 0 || i < 0 || i >= len(t.Counts) {
		return 0
	}
	return int(math.Round(float64(t.Counts[i]) * 100 / float64(t.Total)))
}

// Bar draws percent as BarLength segments, filled with fill.
func Bar(percent int, fill string) string {
	filled := int(math.Round(float64(percent) / 10))
	if filled < 0 {
		filled = 0
	}
	if filled > BarLength {
		filled = BarLength
	}
	return strings.Repeat(fill, filled) + strings.Repeat(BarEmpty, BarLength-filled)
}
