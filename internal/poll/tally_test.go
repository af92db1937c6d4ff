package poll

import (
	"testing"

	"github.com/saxenaaman628/wfh-poll/internal/models"
)

func votes(pairs ...string) []models.Vote {
	out := make([]models.Vote, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Vote{UserID: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func TestCount_NoVotes(t *testing.T) {
	tally := Count(nil, 2, models.Vote.OptionIndex)

	if tally.Total != 0 {
		t.Errorf("expected total 0, got %d", tally.Total)
	}
	for i := 0; i < 2; i++ {
		if tally.Percent(i) != 0 {
			t.Errorf("option %d: expected 0%%, got %d%%", i, tally.Percent(i))
		}
		if bar := Bar(tally.Percent(i), "▓"); bar != "░░░░░░░░░░" {
			t.Errorf("option %d: expected empty bar, got %s", i, bar)
		}
	}
}

func TestCount_SkipsMalformed(t *testing.T) {
	tally := Count(votes(
		"U1", "0",
		"U2", "1",
		"U3", "abc",
		"U4", "7",
		"U5", "-1",
		"U6", "",
		"U7", " 1 ",
	), 2, models.Vote.OptionIndex)

	if tally.Total != 3 {
		t.Fatalf("expected 3 counted votes, got %d", tally.Total)
	}
	if tally.Counts[0] != 1 || tally.Counts[1] != 2 {
		t.Errorf("unexpected counts %v", tally.Counts)
	}
	if len(tally.Voters[1]) != 2 || tally.Voters[1][0] != "U2" || tally.Voters[1][1] != "U7" {
		t.Errorf("unexpected voters %v", tally.Voters[1])
	}
}

func TestCount_Legacy(t *testing.T) {
	tally := Count(votes("U1", "home", "U2", "office", "U3", "office", "U4", "0", "U5", "HOME"), 2, models.Vote.LegacyIndex)

	if tally.Counts[0] != 1 || tally.Counts[1] != 2 || tally.Total != 3 {
		t.Errorf("unexpected legacy tally %+v", tally)
	}
}

func TestPercent_IndependentRounding(t *testing.T) {
	tally := Count(votes("U1", "0", "U2", "1", "U3", "2"), 3, models.Vote.OptionIndex)

	sum := 0
	for i := 0; i < 3; i++ {
		if tally.Percent(i) != 33 {
			t.Errorf("option %d: expected 33%%, got %d%%", i, tally.Percent(i))
		}
		sum += tally.Percent(i)
	}
	// Not normalised.
	if sum != 99 {
		t.Errorf("expected percentages to sum to 99, got %d", sum)
	}

	tally = Count(votes("U1", "0", "U2", "1"), 2, models.Vote.OptionIndex)
	if tally.Percent(0) != 50 || tally.Percent(1) != 50 {
		t.Errorf("expected 50/50, got %d/%d", tally.Percent(0), tally.Percent(1))
	}
	if tally.Percent(5) != 0 {
		t.Error("out of range option should be 0%")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "░░░░░░░░░░"},
		{4, "░░░░░░░░░░"},
		{5, "▓░░░░░░░░░"},
		{33, "▓▓▓░░░░░░░"},
		{67, "▓▓▓▓▓▓▓░░░"},
		{100, "▓▓▓▓▓▓▓▓▓▓"},
		{150, "▓▓▓▓▓▓▓▓▓▓"},
	}

	for _, tt := range tests {
		if got := Bar(tt.percent, "▓"); got != tt.want {
			t.Errorf("Bar(%d) = %s, want %s", tt.percent, got, tt.want)
		}
	}
}
