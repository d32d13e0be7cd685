package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func MessageRouter(api *gin.RouterGroup, messages *controllers.MessageController, g Guards) {
	chats := api.Group("/chats", g.RequireAuth, g.General)
	chats.POST("", messages.Open)
	chats.GET("", messages.List)
	chats.GET("/:id/messages", messages.Messages)
	chats.POST("/:id/messages", messages.Send)

	api.DELETE("/messages/:id", g.RequireAuth, g.General, messages.Delete)
}
