package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"

	"github.com/saxenaaman628/wfh-poll/config"
	"github.com/saxenaaman628/wfh-poll/internal/chat"
)

// GetTestConfig returns a configuration using the memory backend.
func GetTestConfig() config.Config {
	return config.Config{
		Port:           "8080",
		SlackBotToken:  "xoxb-test",
		SlackChannelID: "C-HOMEOFFICE",
		SlackAPIURL:    "http://slack.invalid/api",
		KVBackend:      config.BackendMemory,
		Location:       time.UTC,
		SkipDays:       []time.Weekday{time.Friday, time.Saturday},
		HTTPTimeout:    time.Second,
	}
}

// Date returns noon UTC of the given day; 2025-10-19 is a Sunday.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

type PostedMessage struct {
	Channel string
	Text    string
	Blocks  []slack.Block
	TS      string
}

type UpdatedMessage struct {
	Channel string
	TS      string
	Text    string
	Blocks  []slack.Block
}

type OpenedView struct {
	TriggerID string
	View      slack.ModalViewRequest
}

// FakeChat records every call made to it. Set the *Err fields to make the
// corresponding call fail.
type FakeChat struct {
	mu sync.Mutex

	Posted  []PostedMessage
	Updated []UpdatedMessage
	Views   []OpenedView
	Users   map[string]*slack.User

	PostErr   error
	UpdateErr error
	ViewErr   error

	nextTS int
}

func NewFakeChat() *FakeChat {
	return &FakeChat{Users: map[string]*slack.User{}}
}

func (f *FakeChat) PostMessage(_ context.Context, channel, text string, blocks []slack.Block) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PostErr != nil {
		return "", f.PostErr
	}
	f.nextTS++
	ts := fmt.Sprintf("1760875200.%06d", f.nextTS)
	f.Posted = append(f.Posted, PostedMessage{Channel: channel, Text: text, Blocks: blocks, TS: ts})
	return ts, nil
}

func (f *FakeChat) UpdateMessage(_ context.Context, channel, ts, text string, blocks []slack.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.Updated = append(f.Updated, UpdatedMessage{Channel: channel, TS: ts, Text: text, Blocks: blocks})
	return nil
}

func (f *FakeChat) OpenView(_ context.Context, triggerID string, view slack.ModalViewRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ViewErr != nil {
		return f.ViewErr
	}
	f.Views = append(f.Views, OpenedView{TriggerID: triggerID, View: view})
	return nil
}

func (f *FakeChat) UserInfo(_ context.Context, userID string) (*slack.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[userID]
	if !ok {
		return nil, &chat.APIError{Method: "users.info", Code: "user_not_found"}
	}
	return u, nil
}

// LastUpdate returns the most recent chat.update call.
func (f *FakeChat) LastUpdate(t *testing.T) UpdatedMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Updated) == 0 {
		t.Fatal("expected at least one message update")
	}
	return f.Updated[len(f.Updated)-1]
}

// Section returns block i as a section block.
func Section(t *testing.T, blocks []slack.Block, i int) *slack.SectionBlock {
	t.Helper()
	if i >= len(blocks) {
		t.Fatalf("no block %d in %d blocks", i, len(blocks))
	}
	section, ok := blocks[i].(*slack.SectionBlock)
	if !ok || section.Text == nil {
		t.Fatalf("block %d is %T, not a section with text", i, blocks[i])
	}
	return section
}

// OptionText returns the text of the section rendering option i.
func OptionText(t *testing.T, blocks []slack.Block, i int) string {
	t.Helper()
	return Section(t, blocks, i+1).Text.Text
}

// ContextText returns the first text element of context block i.
func ContextText(t *testing.T, blocks []slack.Block, i int) string {
	t.Helper()
	if i >= len(blocks) {
		t.Fatalf("no block %d in %d blocks", i, len(blocks))
	}
	ctxBlock, ok := blocks[i].(*slack.ContextBlock)
	if !ok || len(ctxBlock.ContextElements.Elements) == 0 {
		t.Fatalf("block %d is %T, not a context block with elements", i, blocks[i])
	}
	text, ok := ctxBlock.ContextElements.Elements[0].(*slack.TextBlockObject)
	if !ok {
		t.Fatalf("context element is %T, not text", ctxBlock.ContextElements.Elements[0])
	}
	return text.Text
}

// MakeFormRequest creates a form encoded request.
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// MakePayloadRequest wraps payload as Slack does for interactivity requests.
func MakePayloadRequest(t *testing.T, path string, payload interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to encode payload: %v", err)
	}
	return MakeFormRequest(http.MethodPost, path, url.Values{"payload": {string(data)}})
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
