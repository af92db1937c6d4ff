package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/wfh-poll/internal/chat"
)

// LegacyVote handles POST /api/vote
// The older vote endpoint stores "home"/"office" values and never toggles.
func (ctl *Controller) LegacyVote(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		return
	}
	value, hasAction := chat.ActionValue(payload)
	ts := chat.MessageTS(payload)
	if payload.User.ID == "" || ts == "" || !hasAction {
		handleUserError(c, "Missing required fields in payload")
		return
	}

	res, err := ctl.svc.RecordLegacyVote(c.Request.Context(),
		chat.ChannelID(payload), ts, payload.User.ID, value)
	if err != nil {
		handleInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "home": res.Home, "office": res.Office})
}
