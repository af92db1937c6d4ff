package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// RESTStore talks to an Upstash style REST endpoint:
//
//	GET  {base}/get/{key}
//	POST {base}/set/{key}   body is the value
//	POST {base}/del/{key}
//	GET  {base}/keys/{pattern}
//
// Replies are normally wrapped as {"result": ...}; bare bodies are accepted too.
type RESTStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRESTStore(baseURL, token string, client *http.Client) *RESTStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

type restReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (s *RESTStore) do(ctx context.Context, method, command, arg string, body io.Reader) (int, []byte, error) {
	// The keys pattern keeps its glob star unescaped.
	escaped := strings.ReplaceAll(url.PathEscape(arg), "%2A", "*")
	endpoint := fmt.Sprintf("%s/%s/%s", s.baseURL, command, escaped)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, fmt.Errorf("kv %s: %w", command, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("kv %s: %w", command, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("kv %s: read reply: %w", command, err)
	}
	return resp.StatusCode, data, nil
}

// unwrap returns the "result" member of a reply. Bodies that are not JSON
// objects yield no result and, on a 2xx status, no error. Error statuses
// without an "error" member are ErrMalformedReply.
func unwrap(command string, status int, data []byte) (json.RawMessage, error) {
	var reply restReply
	if err := json.Unmarshal(data, &reply); err != nil {
		if status >= 300 {
			return nil, fmt.Errorf("kv %s: status %d: %w: %s", command, status, ErrMalformedReply, strings.TrimSpace(string(data)))
		}
		return nil, nil
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("kv %s: %s", command, reply.Error)
	}
	if status >= 300 {
		return nil, fmt.Errorf("kv %s: status %d: %w", command, status, ErrMalformedReply)
	}
	return reply.Result, nil
}

func (s *RESTStore) Get(ctx context.Context, key string) (string, bool, error) {
	status, data, err := s.do(ctx, http.MethodGet, "get", key, nil)
	if err != nil {
		return "", false, err
	}
	if status == http.StatusNotFound {
		return "", false, nil
	}

	trimmed := strings.TrimSpace(string(data))
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		result, wrapped := obj["result"]
		if _, failed := obj["error"]; failed || status >= 300 {
			_, err := unwrap("get", status, data)
			return "", false, err
		}
		if !wrapped {
			// A bare JSON document is the stored value itself.
			return trimmed, true, nil
		}
		if string(result) == "null" {
			return "", false, nil
		}
		return scalar(result), true, nil
	}

	if status >= 300 {
		return "", false, fmt.Errorf("kv get: status %d: %w: %s", status, ErrMalformedReply, trimmed)
	}
	var str string
	if err := json.Unmarshal([]byte(trimmed), &str); err == nil {
		return str, true, nil
	}
	return trimmed, trimmed != "", nil
}

// scalar renders a JSON value as the string that was stored.
func scalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func (s *RESTStore) Set(ctx context.Context, key, value string) error {
	status, data, err := s.do(ctx, http.MethodPost, "set", key, strings.NewReader(value))
	if err != nil {
		return err
	}
	_, err = unwrap("set", status, data)
	return err
}

func (s *RESTStore) Del(ctx context.Context, key string) error {
	status, data, err := s.do(ctx, http.MethodPost, "del", key, nil)
	if err != nil {
		return err
	}
	_, err = unwrap("del", status, data)
	return err
}

func (s *RESTStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	status, data, err := s.do(ctx, http.MethodGet, "keys", prefix+"*", nil)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(data)
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "{") {
		raw, err = unwrap("keys", status, data)
		if err != nil {
			return nil, err
		}
	} else if status >= 300 {
		return nil, fmt.Errorf("kv keys: status %d: %w: %s", status, ErrMalformedReply, trimmed)
	}

	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		// Anything that is not a list of keys counts as no keys.
		return []string{}, nil
	}
	return sortedKeys(keys), nil
}

func (s *RESTStore) String() string {
	return "rest(" + s.baseURL + ")"
}
