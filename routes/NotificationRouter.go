package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func NotificationRouter(api *gin.RouterGroup, notifications *controllers.NotificationController, g Guards) {
	n := api.Group("/notifications", g.RequireAuth, g.General)
	n.GET("", notifications.List)
	n.PUT("/read", notifications.MarkRead)
	n.DELETE("", notifications.Clear)
}
