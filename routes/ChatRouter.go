package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func ChatRouter(incomingRoutes *gin.Engine, hub *controllers.ChatHub, g Guards) {
	incomingRoutes.GET("/ws", g.RequireAuth, hub.HandleWS)
}
