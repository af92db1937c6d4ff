package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	CreatorSystem = "system"

	EmojiHome   = ":house_with_garden:"
	EmojiOffice = ":office:"
)

// PollMeta is stored once per posted message under poll:<ts>:meta.
type PollMeta struct {
	Question string   `json:"question" mapstructure:"question"`
	Options  []Option `json:"options" mapstructure:"options"`
	Channel  string   `json:"channel" mapstructure:"channel"`
	Creator  string   `json:"creator" mapstructure:"creator"`
}

// Option is either a {label, emoji} object or, for polls created from the
// modal, the raw text the user typed. Text is set only in the second case.
type Option struct {
	Label string `json:"label" mapstructure:"label"`
	Emoji string `json:"emoji" mapstructure:"emoji"`
	Text  string `json:"-" mapstructure:"-"`
}

// HomeOfficeOptions are the options of the daily poll.
func HomeOfficeOptions() []Option {
	return []Option{
		{Label: "HOME", Emoji: EmojiHome},
		{Label: "OFFICE", Emoji: EmojiOffice},
	}
}

// TextOptions wraps free-text entries as plain options.
func TextOptions(texts []string) []Option {
	opts := make([]Option, 0, len(texts))
	for _, t := range texts {
		opts = append(opts, Option{Text: t})
	}
	return opts
}

// Display returns the label and emoji to render.
func (o Option) Display() (label, emoji string) {
	if o.Text != "" {
		emoji = EmojiOffice
		if o.Text == "HOME" {
			emoji = EmojiHome
		}
		return strings.ToUpper(o.Text), emoji
	}
	return o.Label, o.Emoji
}

func (o Option) MarshalJSON() ([]byte, error) {
	if o.Text != "" {
		return json.Marshal(o.Text)
	}
	type plain Option
	return json.Marshal(plain(o))
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		*o = Option{Text: v}
	case map[string]interface{}:
		// Only objects carrying both fields are rendered as such.
		_, hasLabel := v["label"]
		_, hasEmoji := v["emoji"]
		if !hasLabel || !hasEmoji {
			*o = Option{}
			return nil
		}
		// Weak decoding keeps options written by other clients readable:
		// a numeric or boolean label decodes as its string form.
		var decoded Option
		if err := mapstructure.WeakDecode(v, &decoded); err != nil {
			return fmt.Errorf("decode option: %w", err)
		}
		*o = decoded
	default:
		*o = Option{}
	}
	return nil
}

// ParsePollMeta decodes metadata as read back from the KV store. The
// document may arrive as-is or JSON encoded a second time as a string.
func ParsePollMeta(raw string) (PollMeta, error) {
	data := []byte(strings.TrimSpace(raw))

	var nested string
	if err := json.Unmarshal(data, &nested); err == nil {
		data = []byte(nested)
	}

	var envelope struct {
		Result *string `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Result != nil {
		data = []byte(*envelope.Result)
	}

	var meta PollMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return PollMeta{}, fmt.Errorf("parse poll metadata: %w", err)
	}
	if meta.Options == nil {
		return PollMeta{}, fmt.Errorf("parse poll metadata: options missing")
	}
	return meta, nil
}
