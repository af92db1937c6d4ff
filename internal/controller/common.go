package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"

	"github.com/saxenaaman628/wfh-poll/internal/chat"
	"github.com/saxenaaman628/wfh-poll/internal/logging"
	"github.com/saxenaaman628/wfh-poll/internal/poll"
)

// Controller serves the Slack webhooks and the scheduler trigger.
type Controller struct {
	svc *poll.Service
}

func New(svc *poll.Service) *Controller {
	return &Controller{svc: svc}
}

// errorMessage prefers the Slack error code over the wrapped chain.
func errorMessage(err error) string {
	var apiErr *chat.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return err.Error()
}

// handleInternalError creates a 500 response for err
func handleInternalError(c *gin.Context, err error) {
	logging.FromContext(c.Request.Context()).Error("request failed", "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": errorMessage(err)})
}

// handleUserError creates a 400 response with msg
func handleUserError(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}

// ack answers with an empty 200, which is all Slack needs to consider the
// interaction handled.
func ack(c *gin.Context) {
	c.Status(http.StatusOK)
}

// readPayload returns the interaction payload, or false when the response
// has already been written.
func readPayload(c *gin.Context) (*slack.InteractionCallback, bool) {
	raw := c.PostForm("payload")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true, "info": "No payload, health check or verification"})
		return nil, false
	}
	payload, err := chat.ParsePayload(raw)
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("invalid interaction payload", "error", err)
		handleUserError(c, "Invalid payload JSON")
		return nil, false
	}
	return payload, true
}
