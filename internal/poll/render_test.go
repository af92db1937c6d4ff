package poll

import (
	"strings"
	"testing"
	"time"

	"github.com/saxenaaman628/wfh-poll/internal/models"
	"github.com/saxenaaman628/wfh-poll/internal/testutil"
)

func TestRender_Initial(t *testing.T) {
	meta := models.PollMeta{
		Question: "Where will you be working on Monday 20/10?",
		Options:  models.HomeOfficeOptions(),
		Creator:  models.CreatorSystem,
	}
	started := time.Unix(1760875200, 0)

	blocks := Render(meta, Count(nil, 2, nil), StyleInitial, started)

	if len(blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(blocks))
	}
	if header := testutil.Section(t, blocks, 0).Text.Text; header != "*Where will you be working on Monday 20/10?*" {
		t.Errorf("unexpected header %q", header)
	}

	want := "1-HOME :house_with_garden:\n░░░░░░░░░░ 0% (0)\n_No votes_"
	if got := testutil.OptionText(t, blocks, 0); got != want {
		t.Errorf("unexpected option text\n got: %q\nwant: %q", got, want)
	}

	accessory := testutil.Section(t, blocks, 2).Accessory
	if accessory == nil || accessory.ButtonElement == nil {
		t.Fatalf("expected a button accessory, got %+v", accessory)
	}
	btn := accessory.ButtonElement
	if btn.Text.Text != "Vote #2" || btn.Value != "option_1" || btn.ActionID != "vote_option_1" {
		t.Errorf("unexpected button %+v", btn)
	}

	footer := testutil.ContextText(t, blocks, 4)
	if footer != "OPEN by system | Responses: -- | Started: <!date^1760875200^{date_short} at {time}|Now>" {
		t.Errorf("unexpected footer %q", footer)
	}
}

func TestRender_WithVotes(t *testing.T) {
	meta := models.PollMeta{
		Question: "Lunch?",
		Options:  models.TextOptions([]string{"pizza", "HOME"}),
		Creator:  "U9",
	}
	tally := Count(votes("U1", "0", "U2", "0", "U3", "1"), 2, models.Vote.OptionIndex)

	realtime := Render(meta, tally, StyleRealtime, time.Unix(0, 0))
	want := "1-PIZZA :office:\n▓▓▓▓▓▓▓░░░ 67% (2)\n<@U1> <@U2>"
	if got := testutil.OptionText(t, realtime, 0); got != want {
		t.Errorf("unexpected option text\n got: %q\nwant: %q", got, want)
	}
	if got := testutil.OptionText(t, realtime, 1); !strings.HasPrefix(got, "2-HOME :house_with_garden:\n▓▓▓░░░░░░░ 33% (1)") {
		t.Errorf("unexpected option text %q", got)
	}
	if footer := testutil.ContextText(t, realtime, 4); !strings.HasPrefix(footer, "OPEN by <@U9> | Responses: 3 |") {
		t.Errorf("unexpected footer %q", footer)
	}

	results := Render(meta, tally, StyleResults, time.Unix(0, 0))
	if got := testutil.OptionText(t, results, 0); !strings.Contains(got, "🟩🟩🟩🟩🟩🟩🟩░░░ 67% (2)") {
		t.Errorf("results style should use green squares, got %q", got)
	}
}

func TestMessageTime(t *testing.T) {
	got, ok := MessageTime("1760875200.000100")
	if !ok || got.Unix() != 1760875200 {
		t.Errorf("unexpected time %v ok=%v", got, ok)
	}
	if _, ok := MessageTime("not-a-ts"); ok {
		t.Error("expected failure for malformed ts")
	}
}
