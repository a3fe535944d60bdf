package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/nawedy/melting-pot-plus/internal/blog"
	"github.com/nawedy/melting-pot-plus/internal/catalog"
	"github.com/nawedy/melting-pot-plus/internal/config"
	"github.com/nawedy/melting-pot-plus/internal/handler"
	"github.com/nawedy/melting-pot-plus/internal/kv"
	"github.com/nawedy/melting-pot-plus/internal/middleware"
	"github.com/nawedy/melting-pot-plus/internal/repository"
	"github.com/nawedy/melting-pot-plus/internal/service"
	"github.com/nawedy/melting-pot-plus/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Fixture stores
	catalogStore, err := catalog.Load()
	if err != nil {
		log.Error("load catalog", "error", err)
		os.Exit(1)
	}
	blogStore, err := blog.Load()
	if err != nil {
		log.Error("load blog posts", "error", err)
		os.Exit(1)
	}

	// Repositories and persistence
	userRepo := repository.NewUserRepository(dbPool)
	cartSnapshots := kv.NewRedis(redisClient, cfg.Cart.SnapshotTTL)

	// Services
	authSvc := service.NewAuthService(userRepo, catalogStore, cfg.JWT.Secret, cfg.JWT.Expiration)
	submissionSvc := service.NewSubmissionService(amqpCh)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(catalogStore)
	cartH := handler.NewCartHandler(catalogStore, cartSnapshots)
	blogH := handler.NewBlogHandler(blogStore, submissionSvc, authSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	submissionWorker := worker.NewSubmissionWorker(amqpCh, blogStore, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	// Language-less API paths redirect to their locale-prefixed form.
	router.NoRoute(middleware.LocaleRedirect("/api/v1", "auth"))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		me := auth.Group("/me", middleware.AuthMiddleware(cfg.JWT.Secret))
		me.GET("", authH.Me)
		me.PATCH("", authH.UpdateMe)
		me.POST("/wishlist/:productId", authH.AddToWishlist)
		me.DELETE("/wishlist/:productId", authH.RemoveFromWishlist)

		lang := v1.Group("/:lang", middleware.ValidateLang())

		products := lang.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.GetByID)
		products.PUT("/:id/stock", middleware.AuthMiddleware(cfg.JWT.Secret), middleware.AdminOnly(), productH.UpdateStock)
		lang.GET("/categories", productH.ListCategories)

		cart := lang.Group("/cart", middleware.CartSession(cfg.Cart.CookieName))
		cart.GET("", cartH.GetCart)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:productId", cartH.UpdateItem)
		cart.DELETE("/items/:productId", cartH.DeleteItem)
		cart.DELETE("", cartH.ClearCart)
		cart.POST("/toggle", cartH.ToggleCart)

		posts := lang.Group("/blog/posts")
		posts.GET("", blogH.ListPosts)
		posts.GET("/:id", blogH.GetPost)
		posts.GET("/:id/related", blogH.RelatedPosts)
		posts.POST("/:id/like", blogH.LikePost)
		posts.DELETE("/:id/like", blogH.UnlikePost)
		posts.POST("/:id/share", blogH.SharePost)

		authed := posts.Group("", middleware.AuthMiddleware(cfg.JWT.Secret))
		authed.POST("/:id/comments", blogH.AddComment)
		authed.POST("/:id/comments/:commentId/replies", blogH.AddReply)
		authed.POST("/:id/comments/:commentId/like", blogH.LikeComment)

		lang.POST("/blog/submissions", middleware.AuthMiddleware(cfg.JWT.Secret), blogH.SubmitPost)
	}

	if err := submissionWorker.Start(ctx); err != nil {
		log.Error("start submission worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	submissionWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
