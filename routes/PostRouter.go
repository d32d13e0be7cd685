package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func PostRouter(api *gin.RouterGroup, posts *controllers.PostController, g Guards) {
	public := api.Group("/posts", g.OptionalAuth, g.General)
	public.GET("", posts.List)
	public.GET("/:id", posts.Get)
	public.GET("/:id/likes", posts.Likers)
	public.GET("/:id/comments", posts.Comments)

	private := api.Group("/posts", g.RequireAuth, g.General)
	private.POST("", posts.Create)
	private.GET("/feed", posts.Feed)
	private.DELETE("/:id", posts.Delete)
	private.POST("/:id/like", posts.ToggleLike)
	private.POST("/:id/comments", posts.AddComment)
	private.POST("/:id/view", posts.RecordView)
	private.GET("/:id/files/:fileId", posts.Download)

	api.DELETE("/comments/:id", g.RequireAuth, g.General, posts.DeleteComment)
}
