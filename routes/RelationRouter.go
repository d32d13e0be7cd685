package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func RelationRouter(api *gin.RouterGroup, relations *controllers.RelationController, g Guards) {
	r := api.Group("/relations", g.RequireAuth, g.General)

	r.GET("/suggestions", relations.Suggestions)
	r.GET("/requests", relations.Requests)
	r.PUT("/requests/:id/accept", relations.AcceptRequest)
	r.DELETE("/requests/:id", relations.DeleteRequest)

	r.POST("/:id/toggle", relations.Toggle)
	r.POST("/:id/request", relations.SendRequest)
	r.POST("/:id/block", relations.Block)
	r.DELETE("/:id/block", relations.Unblock)
	r.GET("/:id/followers", relations.Followers)
	r.GET("/:id/following", relations.Following)
	r.GET("/:id/friends", relations.Friends)
	r.GET("/:id/mutual", relations.Mutual)
}
