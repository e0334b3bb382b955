// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config      *config.Config
	db          *gorm.DB
	app         *fiber.App
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	tagRepo     repository.TagRepository
	commentRepo repository.CommentRepository
}

// NewServer creates a server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db,
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewTagRepository(db),
		repository.NewCommentRepository(db),
	), nil
}

// NewServerWithDeps wires a server from explicit dependencies. Tests use
// this to inject mock repositories.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	commentRepo repository.CommentRepository,
) *Server {
	return &Server{
		config:      cfg,
		db:          db,
		userRepo:    userRepo,
		postRepo:    postRepo,
		tagRepo:     tagRepo,
		commentRepo: commentRepo,
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics at /metrics
	prom := fiberprometheus.New("quill-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks live outside /api so probes skip the CORS layer.
	app.Get("/health", s.HealthCheck)
	app.Get("/health/live", s.Liveness)
	app.Get("/health/ready", s.Readiness)

	api := app.Group("/api")

	// User routes
	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	// Define specific routes BEFORE generic /:id route
	users.Get("/count", s.GetUserCount)
	users.Get("/:id", s.GetUser)
	users.Post("/", s.CreateUser)
	users.Patch("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	// Post routes
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/slug/:slug", s.GetPostBySlug)
	posts.Get("/:id/comments/count", s.GetCommentCount)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", s.CreateComment)
	posts.Put("/:id/comments/:commentId", s.UpdateComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	posts.Get("/:id/tags", s.GetPostTags)
	posts.Post("/:id/tags/:tagId", s.AddTagToPost)
	posts.Delete("/:id/tags/:tagId", s.RemoveTagFromPost)
	// Generic /:id routes must be last
	posts.Get("/:id", s.GetPost)
	posts.Patch("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Tag routes
	tags := api.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Post("/", s.CreateTag)
	tags.Get("/slug/:slug", s.GetTagBySlug)
	tags.Get("/:id", s.GetTag)
	tags.Delete("/:id", s.DeleteTag)

	// Unknown routes get the same error shape as everything else.
	app.Use(func(c *fiber.Ctx) error {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Route"))
	})
}

// App builds the configured Fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Quill API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server.
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting connections, drains in-flight requests and
// releases process-scoped resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down fiber app", slog.String("error", err.Error()))
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
			}
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
