// Package server wires the HTTP routes, middleware and page handlers.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/media"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/views"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	views          fiber.Views
	media          *media.Store

	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository

	feedService    *service.FeedService
	followService  *service.FollowService
	postService    *service.PostService
	commentService *service.CommentService
	accountService *service.AccountService
	profileService *service.ProfileService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// A nil client disables caching; the site still works.
	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret not configured")
	}
	if cache.GetClient() != redisClient {
		cache.SetClient(redisClient)
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("yatube"),
		media:          media.NewStore(cfg.MediaDir, cfg.MaxUploadBytes()),
		userRepo:       repository.NewUserRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}

	s.followService = service.NewFollowService(s.followRepo, s.userRepo, s.postRepo)
	s.feedService = service.NewFeedService(s.postRepo, s.groupRepo, s.userRepo, s.followService, s.commentRepo)
	s.postService = service.NewPostService(s.postRepo, s.groupRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.accountService = service.NewAccountService(s.userRepo)
	s.profileService = service.NewProfileService(s.userRepo)

	s.views = views.New(map[string]interface{}{"url": s.urlFor})
	if err := s.views.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return s, nil
}

// App returns the configured fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	// Uploads are capped by the media store; leave room for the other fields.
	bodyLimit := int(s.config.MaxUploadBytes()) + 1024*1024

	app := fiber.New(fiber.Config{
		AppName:      "yatube",
		Views:        s.views,
		ViewsLayout:  views.Layout,
		BodyLimit:    bodyLimit,
		ErrorHandler: s.ErrorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Resolve the optional current user before anything keyed on it
	app.Use(s.Session())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/health") || strings.HasPrefix(c.Path(), "/media/")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Uploaded images
	app.Static("/media", s.media.Dir())

	auth := app.Group("/auth")
	auth.Get("/login", s.LoginForm).Name("users.login")
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout).Name("users.logout")
	auth.Get("/logout", s.Logout)

	app.Get("/signup", s.SignUpForm).Name("users.signup")
	app.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.SignUp)

	app.Get("/", middleware.PageCache(s.redis, s.config.IndexCacheTTL), s.Index).Name("posts.index")
	app.Get("/group/:slug", s.GroupPosts).Name("posts.group_list")
	app.Get("/follow", s.LoginRequired(), s.FollowIndex).Name("posts.follow_index")

	app.Get("/create", s.LoginRequired(), s.PostCreateForm).Name("posts.post_create")
	app.Post("/create", s.LoginRequired(), middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.PostCreate)

	// Define specific /profile routes BEFORE generic /profile/:username
	app.Get("/profile/edit", s.LoginRequired(), s.ProfileEditForm).Name("users.profile_edit")
	app.Post("/profile/edit", s.LoginRequired(), s.ProfileEdit)
	app.Get("/profile/:username/follow", s.LoginRequired(), s.ProfileFollow).Name("posts.profile_follow")
	app.Post("/profile/:username/follow", s.LoginRequired(), s.ProfileFollow)
	app.Get("/profile/:username/unfollow", s.LoginRequired(), s.ProfileUnfollow).Name("posts.profile_unfollow")
	app.Post("/profile/:username/unfollow", s.LoginRequired(), s.ProfileUnfollow)
	app.Get("/profile/:username", s.Profile).Name("posts.profile")

	// Define specific /posts/:id/:action routes BEFORE generic /posts/:id
	app.Get("/posts/:id/edit", s.LoginRequired(), s.PostEditForm).Name("posts.post_edit")
	app.Post("/posts/:id/edit", s.LoginRequired(), s.PostEdit)
	app.Post("/posts/:id/comment", s.LoginRequired(), middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.AddComment).Name("posts.add_comment")
	app.Get("/posts/:id", s.PostDetail).Name("posts.post_detail")
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
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs caches and rate limits, so its absence degrades
	// rather than fails readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus != "healthy":
		overallStatus = "degraded"
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

// ErrorHandler renders the 404 and 500 pages for errors returned by handlers.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case models.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.As(err, &fe):
		status = fe.Code
	}

	switch {
	case status == fiber.StatusNotFound:
		c.Status(status)
		if renderErr := s.render(c, "404", fiber.Map{"Title": "Page not found", "Path": c.Path()}); renderErr == nil {
			return nil
		}
		return c.SendString("Not Found")
	case status >= fiber.StatusInternalServerError:
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		c.Status(status)
		if renderErr := s.render(c, "500", fiber.Map{"Title": "Server error"}); renderErr == nil {
			return nil
		}
		return c.SendString("Internal Server Error")
	default:
		return c.Status(status).SendString(err.Error())
	}
}

// urlFor reverses a named route. pairs alternate parameter name and value.
func (s *Server) urlFor(name string, pairs ...interface{}) (string, error) {
	if s.app == nil {
		return "", errors.New("routes not registered")
	}
	route := s.app.GetRoute(name)
	if route.Name == "" {
		return "", fmt.Errorf("unknown route %q", name)
	}
	if len(pairs)%2 != 0 {
		return "", fmt.Errorf("route %q: odd number of parameters", name)
	}
	path := route.Path
	for i := 0; i < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		path = strings.Replace(path, ":"+key, url.PathEscape(fmt.Sprint(pairs[i+1])), 1)
	}
	return path, nil
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
