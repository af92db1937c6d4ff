package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("xoxb-test", srv.URL, srv.Client())
}

func TestPostMessage(t *testing.T) {
	var channel, text, blocks string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		channel = r.FormValue("channel")
		text = r.FormValue("text")
		blocks = r.FormValue("blocks")
		io.WriteString(w, `{"ok":true,"channel":"C1","ts":"1700000000.000100"}`)
	})

	ts, err := client.PostMessage(context.Background(), "C1", "question",
		[]slack.Block{slack.NewSectionBlock(Markdown("*question*"), nil, nil)})
	if err != nil {
		t.Fatal(err)
	}
	if ts != "1700000000.000100" {
		t.Errorf("unexpected ts %s", ts)
	}
	if channel != "C1" || text != "question" {
		t.Errorf("unexpected request channel=%q text=%q", channel, text)
	}

	var sent []map[string]interface{}
	if err := json.Unmarshal([]byte(blocks), &sent); err != nil {
		t.Fatalf("blocks not sent as JSON: %v (%q)", err, blocks)
	}
	if len(sent) != 1 || sent[0]["type"] != "section" {
		t.Errorf("unexpected blocks %s", blocks)
	}
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"channel_not_found"}`)
	})

	err := client.UpdateMessage(context.Background(), "C1", "1.2", "", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != "channel_not_found" || apiErr.Method != "chat.update" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestNonJSONResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `<html>bad gateway</html>`)
	})

	err := client.OpenView(context.Background(), "trigger", slack.ModalViewRequest{Type: slack.VTModal})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("non-JSON reply should not be an APIError")
	}
}

func TestOpenView(t *testing.T) {
	var got struct {
		TriggerID string `json:"trigger_id"`
		View      struct {
			CallbackID string `json:"callback_id"`
		} `json:"view"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/views.open" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, `{"ok":true}`)
	})

	err := client.OpenView(context.Background(), "T-1", slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: "create_vote_modal",
		Title:      Plain("Post New Vote"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.TriggerID != "T-1" || got.View.CallbackID != "create_vote_modal" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestUserInfo(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"display name", `{"ok":true,"user":{"id":"U1","real_name":"Ada Lovelace","profile":{"display_name":"ada"}}}`, "ada"},
		{"real name", `{"ok":true,"user":{"id":"U1","real_name":"Ada Lovelace","profile":{"display_name":""}}}`, "Ada Lovelace"},
		{"id fallback", `{"ok":true,"user":{"id":"U1","profile":{}}}`, "U1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/users.info" || r.FormValue("user") != "U1" {
					t.Errorf("unexpected request %s user=%q", r.URL.Path, r.FormValue("user"))
				}
				io.WriteString(w, tt.body)
			})

			user, err := client.UserInfo(context.Background(), "U1")
			if err != nil {
				t.Fatal(err)
			}
			if got := DisplayName(user); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
