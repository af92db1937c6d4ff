package poll

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/saxenaaman628/wfh-poll/internal/chat"
	"github.com/saxenaaman628/wfh-poll/internal/models"
)

// BarStyle selects the glyph filled bar segments are drawn with.
type BarStyle string

const (
	StyleInitial  BarStyle = "initial"
	StyleRealtime BarStyle = "realtime"
	StyleResults  BarStyle = "results"
)

func (s BarStyle) fill() string {
	switch s {
	case StyleRealtime:
		return "▓"
	case StyleResults:
		return "🟩"
	}
	return BarEmpty
}

const (
	resultsLine = "Results: Show in Realtime | :lock: Public: Show Voter Name and Choices"
	noVotes     = "_No votes_"
)

// Render builds the message blocks of a poll.
func Render(meta models.PollMeta, t Tally, style BarStyle, started time.Time) []slack.Block {
	blocks := make([]slack.Block, 0, len(meta.Options)+3)
	blocks = append(blocks, slack.NewSectionBlock(chat.Markdown("*"+meta.Question+"*"), nil, nil))

	for i, opt := range meta.Options {
		blocks = append(blocks, optionBlock(i, opt, t, style))
	}

	responses := "--"
	if style != StyleInitial {
		responses = strconv.Itoa(t.Total)
	}
	blocks = append(blocks,
		slack.NewContextBlock("", chat.Markdown(resultsLine)),
		slack.NewContextBlock("", chat.Markdown(fmt.Sprintf("OPEN by %s | Responses: %s | Started: %s",
			creatorMention(meta.Creator), responses, slackDate(started)))),
	)
	return blocks
}

func optionBlock(i int, opt models.Option, t Tally, style BarStyle) slack.Block {
	label, emoji := opt.Display()

	count := 0
	var voters []string
	if i < len(t.Counts) {
		count = t.Counts[i]
		voters = t.Voters[i]
	}
	percent := t.Percent(i)

	mentions := noVotes
	if len(voters) > 0 {
		tags := make([]string, len(voters))
		for j, uid := range voters {
			tags[j] = "<@" + uid + ">"
		}
		mentions = strings.Join(tags, " ")
	}

	text := fmt.Sprintf("%d-%s %s\n%s %d%% (%d)\n%s",
		i+1, label, emoji, Bar(percent, style.fill()), percent, count, mentions)

	button := slack.NewButtonBlockElement(
		fmt.Sprintf("vote_option_%d", i),
		fmt.Sprintf("option_%d", i),
		chat.Plain(fmt.Sprintf("Vote #%d", i+1)),
	)
	return slack.NewSectionBlock(chat.Markdown(text), nil, slack.NewAccessory(button))
}

func creatorMention(creator string) string {
	if creator == "" || creator == models.CreatorSystem {
		return models.CreatorSystem
	}
	return "<@" + creator + ">"
}

// slackDate renders a timestamp with Slack's date formatting token, so each
// reader sees it in their own timezone.
func slackDate(t time.Time) string {
	return fmt.Sprintf("<!date^%d^{date_short} at {time}|Now>", t.Unix())
}

// MessageTime converts a Slack message timestamp ("1700000000.000100").
func MessageTime(ts string) (time.Time, bool) {
	sec, _, _ := strings.Cut(ts, ".")
	unix, err := strconv.ParseInt(sec, 10, 64)
	if err != nil || unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
