package controller

import (
	"github.com/gin-gonic/gin"
)

type slashCommandForm struct {
	Command   string `form:"command"`
	TriggerID string `form:"trigger_id" binding:"required"`
	UserID    string `form:"user_id"`
	ChannelID string `form:"channel_id"`
}

// SlashCommand handles POST /api/slack/commands
// Opens the "Post New Vote" modal; the submission arrives on the
// interactivity endpoint.
func (ctl *Controller) SlashCommand(c *gin.Context) {
	var form slashCommandForm
	if err := c.ShouldBind(&form); err != nil {
		handleUserError(c, "Missing trigger_id")
		return
	}

	if err := ctl.svc.OpenCreateModal(c.Request.Context(), form.TriggerID, form.ChannelID); err != nil {
		handleInternalError(c, err)
		return
	}

	ack(c)
}
