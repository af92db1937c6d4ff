package poll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/saxenaaman628/wfh-poll/config"
	"github.com/saxenaaman628/wfh-poll/internal/chat"
	"github.com/saxenaaman628/wfh-poll/internal/kv"
	"github.com/saxenaaman628/wfh-poll/internal/logging"
	"github.com/saxenaaman628/wfh-poll/internal/models"
)

var (
	// ErrMetaUnavailable means the poll metadata is missing or unreadable,
	// so the message cannot be re-rendered.
	ErrMetaUnavailable = errors.New("poll metadata unavailable")
	ErrQuestionEmpty   = errors.New("question is empty")
	ErrNoOptions       = errors.New("at least one option is required")
)

// ChatAPI is the part of the Slack Web API the service calls.
type ChatAPI interface {
	PostMessage(ctx context.Context, channel, text string, blocks []slack.Block) (string, error)
	UpdateMessage(ctx context.Context, channel, ts, text string, blocks []slack.Block) error
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	UserInfo(ctx context.Context, userID string) (*slack.User, error)
}

// Key layout in the store. Legacy votes use their own prefix and encoding.
func MetaKey(ts string) string { return "poll:" + ts + ":meta" }

func VotePrefix(ts string) string { return "poll:" + ts + ":vote:" }

func VoteKey(ts, user string) string { return VotePrefix(ts) + user }

func LegacyVotePrefix(ts string) string { return "vote:" + ts + ":" }

func LegacyVoteKey(ts, user string) string { return LegacyVotePrefix(ts) + user }

type Service struct {
	chat  ChatAPI
	store kv.Store
	cfg   config.Config
	now   func() time.Time
}

func NewService(chat ChatAPI, store kv.Store, cfg config.Config) *Service {
	return &Service{chat: chat, store: store, cfg: cfg, now: time.Now}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) localNow() time.Time {
	now := s.now()
	if s.cfg.Location != nil {
		now = now.In(s.cfg.Location)
	}
	return now
}

// IsSkipDay reports whether no daily poll is posted on t.
func (s *Service) IsSkipDay(t time.Time) bool {
	for _, d := range s.cfg.SkipDays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// DailyQuestion asks about the day after now.
func DailyQuestion(now time.Time) string {
	return fmt.Sprintf("Where will you be working on %s?", now.AddDate(0, 0, 1).Format("Monday 02/01"))
}

// PostDailyPoll posts tomorrow's home/office poll to the configured channel.
// posted is false when today is a skip day.
func (s *Service) PostDailyPoll(ctx context.Context) (ts string, posted bool, err error) {
	now := s.localNow()
	if s.IsSkipDay(now) {
		logging.FromContext(ctx).Info("skip day, no poll posted", "weekday", now.Weekday().String())
		return "", false, nil
	}

	meta := models.PollMeta{
		Question: DailyQuestion(now),
		Options:  models.HomeOfficeOptions(),
		Channel:  s.cfg.SlackChannelID,
		Creator:  models.CreatorSystem,
	}
	ts, err = s.publish(ctx, meta)
	if err != nil {
		return "", false, err
	}
	return ts, true, nil
}

// ParseOptions splits the modal's options text into one option per line.
func ParseOptions(raw string) []string {
	var opts []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			opts = append(opts, line)
		}
	}
	return opts
}

// CreateCustomPoll posts a poll submitted through the modal. channel may be
// empty, in which case the poll goes to the creator's DM.
func (s *Service) CreateCustomPoll(ctx context.Context, question, optionsText, channel, creator string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrQuestionEmpty
	}
	options := ParseOptions(optionsText)
	if len(options) == 0 {
		return "", ErrNoOptions
	}
	if channel == "" {
		channel = creator
	}

	return s.publish(ctx, models.PollMeta{
		Question: question,
		Options:  models.TextOptions(options),
		Channel:  channel,
		Creator:  creator,
	})
}

// publish posts the poll with empty bars and stores its metadata. A failed
// metadata write is logged only; the poll is posted but cannot be updated.
func (s *Service) publish(ctx context.Context, meta models.PollMeta) (string, error) {
	log := logging.FromContext(ctx)

	blocks := Render(meta, Count(nil, len(meta.Options), nil), StyleInitial, s.now())
	ts, err := s.chat.PostMessage(ctx, meta.Channel, meta.Question, blocks)
	if err != nil {
		return "", fmt.Errorf("post poll: %w", err)
	}

	data, err := json.Marshal(meta)
	if err != nil {
		log.Error("failed to encode poll metadata", "ts", ts, "error", err)
		return ts, nil
	}
	if err := s.store.Set(ctx, MetaKey(ts), string(data)); err != nil {
		log.Error("failed to store poll metadata", "ts", ts, "error", err)
		return ts, nil
	}

	log.Info("poll posted", "ts", ts, "channel", meta.Channel, "options", len(meta.Options))
	return ts, nil
}

func (s *Service) loadMeta(ctx context.Context, ts string) (models.PollMeta, error) {
	raw, found, err := s.store.Get(ctx, MetaKey(ts))
	if errors.Is(err, kv.ErrMalformedReply) {
		return models.PollMeta{}, fmt.Errorf("%w: %v", ErrMetaUnavailable, err)
	}
	if err != nil {
		return models.PollMeta{}, fmt.Errorf("load poll metadata: %w", err)
	}
	if !found {
		return models.PollMeta{}, fmt.Errorf("%w: no metadata for %s", ErrMetaUnavailable, ts)
	}
	meta, err := models.ParsePollMeta(raw)
	if err != nil {
		return models.PollMeta{}, fmt.Errorf("%w: %v", ErrMetaUnavailable, err)
	}
	return meta, nil
}

// loadVotes reads every vote stored under prefix. Keys deleted between the
// listing and the read, and keys whose read fails, are skipped. An unreadable
// listing counts as no votes.
func (s *Service) loadVotes(ctx context.Context, prefix string) ([]models.Vote, error) {
	log := logging.FromContext(ctx)

	keys, err := s.store.Keys(ctx, prefix)
	if errors.Is(err, kv.ErrMalformedReply) {
		log.Warn("unreadable vote listing, tallying no votes", "prefix", prefix, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	votes := make([]models.Vote, 0, len(keys))
	for _, key := range keys {
		val, found, err := s.store.Get(ctx, key)
		if err != nil {
			log.Warn("skipping unreadable vote", "key", key, "error", err)
			continue
		}
		if !found {
			continue
		}
		votes = append(votes, models.Vote{UserID: kv.LastSegment(key), Value: val})
	}
	return votes, nil
}

// ToggleVote records user's click on option idx. Clicking the option the
// user already voted for removes the vote. The message is then re-rendered
// from a fresh read of all votes.
func (s *Service) ToggleVote(ctx context.Context, channel, ts, user string, idx int) (Tally, error) {
	log := logging.FromContext(ctx)

	meta, err := s.loadMeta(ctx, ts)
	if err != nil {
		return Tally{}, err
	}

	key := VoteKey(ts, user)
	current, found, err := s.store.Get(ctx, key)
	if err != nil {
		log.Warn("failed to read current vote, treating as none", "key", key, "error", err)
		found = false
	}
	currentIdx, valid := models.Vote{Value: current}.OptionIndex()

	if found && valid && currentIdx == idx {
		if err := s.store.Del(ctx, key); err != nil {
			return Tally{}, fmt.Errorf("remove vote: %w", err)
		}
		log.Info("vote removed", "key", key)
	} else {
		if err := s.store.Set(ctx, key, strconv.Itoa(idx)); err != nil {
			return Tally{}, fmt.Errorf("store vote: %w", err)
		}
		log.Info("vote written", "key", key, "option", idx)
	}

	return s.rerender(ctx, meta, channel, ts, StyleRealtime)
}

// ShowResults re-renders the poll with the results bar style without
// touching any vote.
func (s *Service) ShowResults(ctx context.Context, channel, ts string) (Tally, error) {
	meta, err := s.loadMeta(ctx, ts)
	if err != nil {
		return Tally{}, err
	}
	return s.rerender(ctx, meta, channel, ts, StyleResults)
}

func (s *Service) rerender(ctx context.Context, meta models.PollMeta, channel, ts string, style BarStyle) (Tally, error) {
	votes, err := s.loadVotes(ctx, VotePrefix(ts))
	if err != nil {
		return Tally{}, err
	}
	t := Count(votes, len(meta.Options), models.Vote.OptionIndex)

	if channel == "" {
		channel = meta.Channel
	}
	if err := s.chat.UpdateMessage(ctx, channel, ts, meta.Question, Render(meta, t, style, s.started(ts))); err != nil {
		return t, fmt.Errorf("update poll: %w", err)
	}
	logging.FromContext(ctx).Info("poll updated", "ts", ts, "responses", t.Total, "style", string(style))
	return t, nil
}

func (s *Service) started(ts string) time.Time {
	if t, ok := MessageTime(ts); ok {
		return t
	}
	return s.now()
}

// LegacyResult lists voter display names per option of a legacy poll.
type LegacyResult struct {
	Home   []string `json:"home"`
	Office []string `json:"office"`
}

// RecordLegacyVote handles the older home/office vote encoding. Votes are
// overwritten, never toggled, and live under their own key prefix.
func (s *Service) RecordLegacyVote(ctx context.Context, channel, ts, user, value string) (LegacyResult, error) {
	if err := s.store.Set(ctx, LegacyVoteKey(ts, user), value); err != nil {
		return LegacyResult{}, fmt.Errorf("store vote: %w", err)
	}

	votes, err := s.loadVotes(ctx, LegacyVotePrefix(ts))
	if err != nil {
		return LegacyResult{}, err
	}

	meta := models.PollMeta{
		Options: models.HomeOfficeOptions(),
		Channel: channel,
		Creator: models.CreatorSystem,
	}
	if stored, err := s.loadMeta(ctx, ts); err == nil {
		meta.Question = stored.Question
	} else {
		// The daily poll asks about the day after it was posted.
		meta.Question = DailyQuestion(s.started(ts).In(s.location()))
	}

	t := Count(votes, len(meta.Options), models.Vote.LegacyIndex)
	if err := s.chat.UpdateMessage(ctx, channel, ts, meta.Question, Render(meta, t, StyleRealtime, s.started(ts))); err != nil {
		return LegacyResult{}, fmt.Errorf("update poll: %w", err)
	}

	return LegacyResult{
		Home:   s.displayNames(ctx, t.Voters[0]),
		Office: s.displayNames(ctx, t.Voters[1]),
	}, nil
}

func (s *Service) location() *time.Location {
	if s.cfg.Location != nil {
		return s.cfg.Location
	}
	return time.UTC
}

// displayNames looks each user up; lookups that fail fall back to the id.
func (s *Service) displayNames(ctx context.Context, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		u, err := s.chat.UserInfo(ctx, id)
		if err != nil {
			logging.FromContext(ctx).Debug("user lookup failed", "user", id, "error", err)
			names = append(names, id)
			continue
		}
		names = append(names, chat.DisplayName(u))
	}
	return names
}

// CreatePollModal is the form the slash command opens. channelID is carried
// in the private metadata so the submission knows where to post.
func CreatePollModal(channelID string) slack.ModalViewRequest {
	question := slack.NewPlainTextInputBlockElement(
		chat.Plain("Enter your question, support format/emoji..."), QuestionActionID)
	options := slack.NewPlainTextInputBlockElement(
		chat.Plain("One option per line. Support format/emoji..."), OptionsActionID)
	options.Multiline = true

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CreateModalCallbackID,
		Title:           chat.Plain("Post New Vote"),
		Submit:          chat.Plain("Submit"),
		Close:           chat.Plain("Cancel"),
		PrivateMetadata: channelID,
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewInputBlock(QuestionBlockID, chat.Plain("Question"), nil, question),
			slack.NewInputBlock(OptionsBlockID, chat.Plain("Options"), nil, options),
		}},
	}
}

const (
	CreateModalCallbackID = "create_vote_modal"
	QuestionBlockID       = "question"
	QuestionActionID      = "question_input"
	OptionsBlockID        = "options"
	OptionsActionID       = "options_input"
	ShowResultsValue      = "show_results"
)

// OpenCreateModal opens the poll creation form for a slash command.
func (s *Service) OpenCreateModal(ctx context.Context, triggerID, channelID string) error {
	if err := s.chat.OpenView(ctx, triggerID, CreatePollModal(channelID)); err != nil {
		return fmt.Errorf("open modal: %w", err)
	}
	return nil
}
