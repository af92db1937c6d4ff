package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"

	"github.com/saxenaaman628/wfh-poll/internal/chat"
	"github.com/saxenaaman628/wfh-poll/internal/logging"
	"github.com/saxenaaman628/wfh-poll/internal/models"
	"github.com/saxenaaman628/wfh-poll/internal/poll"
)

// Interactivity handles POST /api/slack/interactivity
// Dispatches on the payload type: modal submissions create polls, button
// clicks toggle votes and "show_results" re-renders with the results style.
func (ctl *Controller) Interactivity(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		return
	}

	switch payload.Type {
	case slack.InteractionTypeViewSubmission:
		ctl.submitPoll(c, payload)
	case slack.InteractionTypeBlockActions:
		ctl.vote(c, payload)
	case slack.InteractionTypeInteractionMessage:
		ctl.showResults(c, payload)
	default:
		ack(c)
	}
}

func (ctl *Controller) submitPoll(c *gin.Context, p *slack.InteractionCallback) {
	if p.View.CallbackID != poll.CreateModalCallbackID || p.User.ID == "" {
		ack(c)
		return
	}

	_, err := ctl.svc.CreateCustomPoll(c.Request.Context(),
		chat.Input(p.View, poll.QuestionBlockID, poll.QuestionActionID),
		chat.Input(p.View, poll.OptionsBlockID, poll.OptionsActionID),
		p.View.PrivateMetadata,
		p.User.ID,
	)
	switch {
	case errors.Is(err, poll.ErrQuestionEmpty):
		c.JSON(http.StatusOK, chat.ViewErrors(map[string]string{poll.QuestionBlockID: "Enter a question"}))
	case errors.Is(err, poll.ErrNoOptions):
		c.JSON(http.StatusOK, chat.ViewErrors(map[string]string{poll.OptionsBlockID: "Enter at least one option"}))
	case err != nil:
		logging.FromContext(c.Request.Context()).Error("custom poll failed", "user", p.User.ID, "error", err)
		c.JSON(http.StatusOK, chat.ViewErrors(map[string]string{
			poll.QuestionBlockID: "Could not post the poll: " + errorMessage(err),
		}))
	default:
		ack(c)
	}
}

func (ctl *Controller) vote(c *gin.Context, p *slack.InteractionCallback) {
	value, hasAction := chat.ActionValue(p)
	ts := chat.MessageTS(p)
	if p.User.ID == "" || ts == "" || !hasAction {
		handleUserError(c, "Missing required fields in payload")
		return
	}
	idx, ok := models.ParseActionValue(value)
	if !ok {
		handleUserError(c, "Invalid option value")
		return
	}

	_, err := ctl.svc.ToggleVote(c.Request.Context(), chat.ChannelID(p), ts, p.User.ID, idx)
	ctl.finishUpdate(c, err)
}

func (ctl *Controller) showResults(c *gin.Context, p *slack.InteractionCallback) {
	value, _ := chat.ActionValue(p)
	ts := chat.MessageTS(p)
	if value != poll.ShowResultsValue || ts == "" {
		ack(c)
		return
	}

	_, err := ctl.svc.ShowResults(c.Request.Context(), chat.ChannelID(p), ts)
	ctl.finishUpdate(c, err)
}

// finishUpdate maps the outcome of a re-render. Missing metadata is logged
// and acknowledged so Slack does not retry or alert.
func (ctl *Controller) finishUpdate(c *gin.Context, err error) {
	switch {
	case errors.Is(err, poll.ErrMetaUnavailable):
		logging.FromContext(c.Request.Context()).Error("cannot update poll", "error", err)
		ack(c)
	case err != nil:
		handleInternalError(c, err)
	default:
		ack(c)
	}
}
