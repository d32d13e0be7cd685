package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func UserRouter(api *gin.RouterGroup, users *controllers.UserController, posts *controllers.PostController, demos *controllers.DemoController, g Guards) {
	me := api.Group("/users/me", g.RequireAuth, g.General)
	me.GET("", users.Me)
	me.PUT("", users.UpdateMe)
	me.POST("/avatar", users.UpdateAvatar)
	me.PUT("/password", users.ChangePassword)

	public := api.Group("/users", g.OptionalAuth, g.General)
	public.GET("/search", users.Search)
	public.GET("/:username", users.Profile)
	public.GET("/:username/posts", posts.ListByAuthor)
	public.GET("/:username/demos", demos.ListByUsername)
}
