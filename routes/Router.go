package routes

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	Users         *controllers.UserController
	Relations     *controllers.RelationController
	Notifications *controllers.NotificationController
	Posts         *controllers.PostController
	Demos         *controllers.DemoController
	Files         *controllers.FileController
	Messages      *controllers.MessageController
	Hub           *controllers.ChatHub
}

// Guards are the middlewares routes are wrapped in.
type Guards struct {
	RequireAuth  gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	General      gin.HandlerFunc
	Login        gin.HandlerFunc
	Email        gin.HandlerFunc
}

// Register mounts every route on router.
func Register(router *gin.Engine, c Controllers, g Guards, health func(context.Context) error) {
	HomeRouter(router, c.Users, g, health)

	api := router.Group("/api")
	AuthRouter(api, c.Users, g)
	UserRouter(api, c.Users, c.Posts, c.Demos, g)
	RelationRouter(api, c.Relations, g)
	NotificationRouter(api, c.Notifications, g)
	PostRouter(api, c.Posts, g)
	DemoRouter(api, c.Demos, g)
	FileRouter(api, c.Files, g)
	MessageRouter(api, c.Messages, g)
	ChatRouter(router, c.Hub, g)
}
