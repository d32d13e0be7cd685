package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/SuperDex7/FeatureMe-sub000/database"
	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/initializers"
	"github.com/SuperDex7/FeatureMe-sub000/ratelimit"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
	"github.com/SuperDex7/FeatureMe-sub000/routes"
	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and websocket server",
		RunE:  runServe,
	}
	cmd.Flags().Bool("skip-indexes", false, "do not create missing indexes on startup")
	return cmd
}

func loadConfig(cmd *cobra.Command) (*initializers.Config, error) {
	envFiles, err := cmd.Flags().GetStringSlice("env")
	if err != nil {
		return nil, err
	}
	return initializers.LoadConfig(envFiles...)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("disconnect mongo: %v", err)
		}
	}()
	db := client.Database(cfg.DBName)

	if skip, _ := cmd.Flags().GetBool("skip-indexes"); !skip {
		if err := database.EnsureIndexes(ctx, db); err != nil {
			return err
		}
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Printf("%v; rate limiting is disabled until redis is reachable", err)
	}
	defer rdb.Close()

	bucket, err := database.GridFSBucket(db)
	if err != nil {
		return fmt.Errorf("open gridfs bucket: %w", err)
	}

	stores := routes.Stores{
		Users:     repositories.NewUserRepository(db),
		Posts:     repositories.NewPostRepository(db),
		Comments:  repositories.NewCommentRepository(db),
		Likes:     repositories.NewLikeRepository(db),
		Views:     repositories.NewViewRepository(db),
		Downloads: repositories.NewDownloadRepository(db),
		Relations: repositories.NewRelationRepository(db),
		Chats:     repositories.NewChatRepository(db),
		Messages:  repositories.NewMessageRepository(db),
		Demos:     repositories.NewDemoRepository(db),
		Codes:     repositories.NewResetCodeRepository(db),
		Files:     storage.NewGridFSStore(bucket),
		Mailer: helper.NewMailer(helper.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, cfg.GinMode == gin.DebugMode),
	}
	router, hub := routes.Build(stores, ratelimit.NewLimiter(rdb), routes.Settings{
		Secret:         []byte(cfg.SecretKey),
		TokenTTL:       cfg.TokenTTL,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		SecureCookie:   cfg.SecureCookie,
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("shutting down")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
