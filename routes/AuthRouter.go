package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
)

func AuthRouter(api *gin.RouterGroup, users *controllers.UserController, g Guards) {
	auth := api.Group("/auth")
	auth.POST("/signup", g.General, users.SignUp)
	auth.POST("/login", g.Login, users.Login)
	auth.POST("/logout", g.General, users.Logout)
	auth.POST("/forgot-password", g.Email, users.ForgotPassword)
	auth.POST("/reset-password", g.Email, users.ResetPassword)
}
