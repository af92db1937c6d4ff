package chat

import (
	"encoding/json"
	"fmt"

	"github.com/slack-go/slack"
)

// ParsePayload decodes the "payload" form field of an interactivity request.
func ParsePayload(raw string) (*slack.InteractionCallback, error) {
	var cb slack.InteractionCallback
	if err := json.Unmarshal([]byte(raw), &cb); err != nil {
		return nil, fmt.Errorf("decode interaction payload: %w", err)
	}
	return &cb, nil
}

// ActionValue returns the value of the first action, whether it came from
// a block element or a legacy attachment button.
func ActionValue(cb *slack.InteractionCallback) (string, bool) {
	if actions := cb.ActionCallback.BlockActions; len(actions) > 0 && actions[0] != nil {
		return actions[0].Value, true
	}
	if actions := cb.ActionCallback.AttachmentActions; len(actions) > 0 && actions[0] != nil {
		return actions[0].Value, true
	}
	return "", false
}

// MessageTS is the timestamp of the message the interaction happened on.
func MessageTS(cb *slack.InteractionCallback) string {
	switch {
	case cb.Message.Timestamp != "":
		return cb.Message.Timestamp
	case cb.MessageTs != "":
		return cb.MessageTs
	}
	return cb.Container.MessageTs
}

// ChannelID is the channel the interaction happened in, if any.
func ChannelID(cb *slack.InteractionCallback) string {
	switch {
	case cb.Channel.ID != "":
		return cb.Channel.ID
	case cb.Message.Channel != "":
		return cb.Message.Channel
	}
	return cb.Container.ChannelID
}

// Input returns the submitted value of the given block and action.
func Input(view slack.View, blockID, actionID string) string {
	if view.State == nil {
		return ""
	}
	return view.State.Values[blockID][actionID].Value
}

// ViewErrors keeps a modal open and shows errors next to the named blocks.
func ViewErrors(errs map[string]string) *slack.ViewSubmissionResponse {
	return slack.NewErrorsViewSubmissionResponse(errs)
}
