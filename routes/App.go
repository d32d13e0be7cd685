package routes

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/controllers"
	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/middlewares"
	"github.com/SuperDex7/FeatureMe-sub000/ratelimit"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
	"github.com/SuperDex7/FeatureMe-sub000/services"
	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

// Stores is the persistence the application runs on.
type Stores struct {
	Users     repositories.UserRepository
	Posts     repositories.PostRepository
	Comments  repositories.CommentRepository
	Likes     repositories.LikeRepository
	Views     repositories.ViewRepository
	Downloads repositories.DownloadRepository
	Relations repositories.RelationRepository
	Chats     repositories.ChatRepository
	Messages  repositories.MessageRepository
	Demos     repositories.DemoRepository
	Codes     repositories.ResetCodeRepository
	Files     storage.FileStore
	Mailer    helper.Mailer
}

type Settings struct {
	Secret         []byte
	TokenTTL       time.Duration
	AllowedOrigins []string
	MaxUploadBytes int64
	SecureCookie   bool
	// Health reports whether the backing services are reachable.
	Health func(context.Context) error
}

// Build wires services, controllers and middlewares into a gin engine. The
// returned hub must be closed on shutdown.
func Build(st Stores, limiter *ratelimit.Limiter, s Settings) (*gin.Engine, *controllers.ChatHub) {
	notifications := services.NewNotificationService(st.Users)
	relations := services.NewRelationService(st.Relations, st.Users, notifications)
	users := services.NewUserService(st.Users, st.Posts, relations, st.Files, s.Secret, s.TokenTTL)
	resets := services.NewPasswordResetService(st.Users, st.Codes, st.Mailer)
	posts := services.NewPostService(services.PostDeps{
		Posts:         st.Posts,
		Comments:      st.Comments,
		Likes:         st.Likes,
		Views:         st.Views,
		Downloads:     st.Downloads,
		Users:         st.Users,
		Relations:     relations,
		Notifications: notifications,
		Files:         st.Files,
	})
	chats := services.NewChatService(st.Chats, st.Messages, st.Users, relations)
	demos := services.NewDemoService(st.Demos, st.Users, st.Files)

	hub := controllers.NewChatHub(chats, s.AllowedOrigins)
	c := Controllers{
		Users:         controllers.NewUserController(users, resets, int(s.TokenTTL.Seconds()), s.SecureCookie),
		Relations:     controllers.NewRelationController(relations),
		Notifications: controllers.NewNotificationController(notifications),
		Posts:         controllers.NewPostController(posts),
		Demos:         controllers.NewDemoController(demos),
		Files:         controllers.NewFileController(st.Files),
		Messages:      controllers.NewMessageController(chats, hub),
		Hub:           hub,
	}
	g := Guards{
		RequireAuth:  middlewares.RequireAuth(s.Secret, st.Users),
		OptionalAuth: middlewares.OptionalAuth(s.Secret, st.Users),
		General:      middlewares.RateLimit(limiter, ratelimit.General),
		Login:        middlewares.RateLimit(limiter, ratelimit.Login),
		Email:        middlewares.RateLimit(limiter, ratelimit.EmailVerification),
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middlewares.RequestID())
	corsConfig := cors.Config{
		AllowOrigins:     s.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.AllowedOrigins) == 0 {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	router.Use(cors.New(corsConfig))
	if s.MaxUploadBytes > 0 {
		router.Use(middlewares.BodyLimit(s.MaxUploadBytes))
		router.MaxMultipartMemory = min(s.MaxUploadBytes, 32<<20)
	}

	Register(router, c, g, s.Health)
	return router, hub
}
