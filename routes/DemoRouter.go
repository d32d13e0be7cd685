package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func DemoRouter(api *gin.RouterGroup, demos *controllers.DemoController, g Guards) {
	d := api.Group("/demos", g.RequireAuth, g.General)
	d.POST("", demos.Upload)
	d.DELETE("/:id", demos.Delete)
}
