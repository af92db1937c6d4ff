package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/wfh-poll/internal/controller"
)

func RegisterRoutes(r *gin.Engine, ctl *controller.Controller) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	{
		api.POST("/send-vote", ctl.SendVote)
		api.GET("/schedule-send-vote", ctl.ScheduleSendVote)
		api.POST("/schedule-send-vote", ctl.ScheduleSendVote)
		api.POST("/vote", ctl.LegacyVote)

		slackHooks := api.Group("/slack")
		slackHooks.POST("/commands", ctl.SlashCommand)
		slackHooks.POST("/interactivity", ctl.Interactivity)
	}
}

// NewRouter builds the engine with the request middleware and every route.
func NewRouter(ctl *controller.Controller) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())
	RegisterRoutes(r, ctl)
	return r
}
