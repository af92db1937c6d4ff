// Package chat wraps the slack-go Web API client with the four methods the
// poll handlers call, and helpers for reading interaction payloads.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
)

// APIError is returned when Slack answers with "ok": false.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack %s: %s", e.Method, e.Code)
}

// wrapError turns slack-go's error reply into an APIError and annotates
// everything else with the method name.
func wrapError(method string, err error) error {
	if err == nil {
		return nil
	}
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return &APIError{Method: method, Code: slackErr.Err}
	}
	return fmt.Errorf("slack %s: %w", method, err)
}

type Client struct {
	api *slack.Client
}

// NewClient builds a client for the Web API at apiURL, normally
// https://slack.com/api.
func NewClient(token, apiURL string, httpClient *http.Client) *Client {
	opts := []slack.Option{slack.OptionAPIURL(strings.TrimRight(apiURL, "/") + "/")}
	if httpClient != nil {
		opts = append(opts, slack.OptionHTTPClient(httpClient))
	}
	return &Client{api: slack.New(token, opts...)}
}

// PostMessage posts a message and returns its timestamp.
func (c *Client) PostMessage(ctx context.Context, channel, text string, blocks []slack.Block) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return "", wrapError("chat.postMessage", err)
	}
	return ts, nil
}

// UpdateMessage replaces the content of the message at ts.
func (c *Client) UpdateMessage(ctx context.Context, channel, ts, text string, blocks []slack.Block) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channel, ts,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
	)
	return wrapError("chat.update", err)
}

func (c *Client) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	_, err := c.api.OpenViewContext(ctx, triggerID, view)
	return wrapError("views.open", err)
}

func (c *Client) UserInfo(ctx context.Context, userID string) (*slack.User, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, wrapError("users.info", err)
	}
	return user, nil
}

// DisplayName prefers the profile display name, then the real name.
func DisplayName(u *slack.User) string {
	switch {
	case u == nil:
		return ""
	case u.Profile.DisplayName != "":
		return u.Profile.DisplayName
	case u.RealName != "":
		return u.RealName
	case u.Profile.RealName != "":
		return u.Profile.RealName
	}
	return u.ID
}

// Markdown and Plain build the two Block Kit text objects.
func Markdown(s string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, s, false, false)
}

func Plain(s string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, s, false, false)
}
