package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func FileRouter(api *gin.RouterGroup, files *controllers.FileController, g Guards) {
	api.GET("/files/:id", g.OptionalAuth, g.General, files.Get)
}
