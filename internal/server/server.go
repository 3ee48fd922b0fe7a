package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/events"
	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	auth           *middleware.Authenticator
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	bus            events.Publisher
	featureFlags   *featureflags.Manager

	storyService        *service.StoryService
	tagService          *service.TagService
	likeService         *service.LikeService
	commentService      *service.CommentService
	followService       *service.FollowService
	libraryService      *service.LibraryService
	notificationService *service.NotificationService
	authorService       *service.AuthorService
}

// NewServer connects to the database, Redis and Kafka and builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)
	bus := events.NewPublisher(cfg.Brokers(), cfg.KafkaTopic)

	return NewServerWithDeps(cfg, db, redisClient, bus)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient and bus may be nil; live delivery and domain events are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, bus events.Publisher) (*Server, error) {
	if bus == nil {
		bus = events.NopPublisher{}
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		auth:           middleware.NewAuthenticator(cfg.JWTSecret),
		bus:            bus,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	// Initialize notifier and hub if Redis is available
	var realtime service.RealtimePublisher
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
		realtime = server.notifier
	}

	storyRepo := repository.NewStoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	fanout := service.NewFanout(followerRepo, notificationRepo, realtime, bus, server.featureFlags, cfg.FanoutTimeout())

	server.storyService = service.NewStoryService(storyRepo, tagRepo, fanout)
	server.tagService = service.NewTagService(tagRepo)
	server.likeService = service.NewLikeService(repository.NewLikeRepository(db), storyRepo, fanout)
	server.commentService = service.NewCommentService(repository.NewCommentRepository(db), storyRepo, fanout)
	server.followService = service.NewFollowService(followerRepo, authorRepo, fanout)
	server.libraryService = service.NewLibraryService(repository.NewLibraryRepository(db), storyRepo, authorRepo)
	server.notificationService = service.NewNotificationService(notificationRepo)
	server.authorService = service.NewAuthorService(authorRepo, server.followService)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	optional := s.auth.Optional()
	protected := s.AuthRequired()

	// Authors
	authors := api.Group("/authors")
	authors.Get("/", s.GetAuthors)
	authors.Get("/me", protected, s.GetMyProfile)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	authors.Get("/:id/stories", optional, s.GetAuthorStories)
	authors.Get("/:id/libraries", optional, s.GetAuthorLibraries)
	authors.Get("/:id/followers/count", s.GetFollowerCount)
	authors.Get("/:id/followers", s.GetFollowers)
	authors.Get("/:id/followings/count", s.GetFollowingCount)
	authors.Get("/:id/followings", s.GetFollowings)
	authors.Get("/:id/follow", protected, s.GetFollowStatus)
	authors.Post("/:id/follow", protected, s.FollowAuthor)
	authors.Delete("/:id/follow", protected, s.UnfollowAuthor)
	authors.Get("/:id", s.GetAuthor)

	// Stories
	stories := api.Group("/stories")
	stories.Get("/", s.GetStories)
	stories.Post("/", protected, s.CreateStory)
	stories.Get("/slug/:slug", s.GetStoryBySlug)
	stories.Get("/:id/likes/count", s.GetLikeCount)
	stories.Get("/:id/likes", s.GetStoryLikes)
	stories.Post("/:id/like", protected, s.LikeStory)
	stories.Delete("/:id/like", protected, s.UnlikeStory)
	stories.Get("/:id/comments/count", s.GetCommentCount)
	stories.Get("/:id/comments", s.GetComments)
	stories.Post("/:id/comments", protected, s.CreateComment)
	stories.Get("/:id", s.GetStory)
	stories.Put("/:id", protected, s.UpdateStory)
	stories.Delete("/:id", protected, s.DeleteStory)

	// Comments
	comments := api.Group("/comments")
	comments.Post("/:id/replies", protected, s.ReplyToComment)
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", protected, s.UpdateComment)
	comments.Delete("/:id", protected, s.DeleteComment)

	// Tags
	tags := api.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Post("/", protected, s.CreateTag)
	tags.Get("/:id", s.GetTag)
	tags.Put("/:id", protected, s.UpdateTag)
	tags.Delete("/:id", protected, s.DeleteTag)

	// Libraries
	libraries := api.Group("/libraries")
	libraries.Post("/", protected, s.CreateLibrary)
	libraries.Get("/:id/stories", optional, s.GetLibraryStories)
	libraries.Post("/:id/stories/:storyId", protected, s.AddLibraryStory)
	libraries.Delete("/:id/stories/:storyId", protected, s.RemoveLibraryStory)
	libraries.Get("/:id", optional, s.GetLibrary)
	libraries.Put("/:id", protected, s.UpdateLibrary)
	libraries.Delete("/:id", protected, s.DeleteLibrary)

	// Notifications
	notifs := api.Group("/notifications", protected)
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Post("/read-all", s.MarkAllNotificationsRead)
	notifs.Post("/:id/read", s.MarkNotificationRead)

	api.Get("/feature-flags", protected, s.GetFeatureFlags)

	// Websocket endpoint for live notifications
	api.Get("/ws", s.auth.WebSocket(), s.requireUpgrade, s.WebsocketHandler())
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return s.auth.Required()
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs the count cache and live delivery, so it is reported but optional.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App returns the configured fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName: "Inkwell API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()

	// Wire the hub to the Redis subscriber if available
	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start notification wiring", slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	// Close WebSocket connections gracefully
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
		}
	}

	if err := s.bus.Close(); err != nil {
		middleware.Logger.Error("error closing event publisher", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
