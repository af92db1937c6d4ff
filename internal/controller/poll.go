package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/wfh-poll/internal/logging"
)

// SendVote handles POST /api/send-vote
// Posts tomorrow's home/office poll unless today is a skip day.
func (ctl *Controller) SendVote(c *gin.Context) {
	ts, posted, err := ctl.svc.PostDailyPoll(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("daily poll failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}
	if !posted {
		c.JSON(http.StatusOK, gin.H{"ok": false, "info": "Not a valid day to post vote"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ts": ts})
}

// ScheduleSendVote handles GET and POST /api/schedule-send-vote, the
// endpoint the external cron calls.
func (ctl *Controller) ScheduleSendVote(c *gin.Context) {
	ts, posted, err := ctl.svc.PostDailyPoll(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("scheduled poll failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to call /api/send-vote",
			"detail": errorMessage(err),
		})
		return
	}
	if !posted {
		c.JSON(http.StatusOK, gin.H{"ok": false, "info": "Not a valid day to post vote"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ts": ts})
}
