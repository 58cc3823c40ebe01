package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trainingapi/internal/auth"
	"trainingapi/internal/models"
	"trainingapi/internal/storage"
)

// Server provides HTTP handlers for the training API backend.
type Server struct {
	engine    *gin.Engine
	store     *storage.Store
	tokens    *auth.TokenManager
	logger    *slog.Logger
	uploadDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *storage.Store, tokens *auth.TokenManager, logger *slog.Logger, uploadDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine:    router,
		store:     store,
		tokens:    tokens,
		logger:    logger,
		uploadDir: uploadDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
		}

		blog := api.Group("/blog")
		{
			blog.GET("/posts", s.handleListPosts)
			blog.GET("/posts/featured", s.handleFeaturedPosts)
			blog.GET("/posts/search", s.handleSearchPosts)
			blog.GET("/posts/:id", s.handleGetPost)
			blog.POST("/posts/:id/like", s.handleLikePost)

			blog.POST("/posts", s.requireAuth, s.handleCreatePost)
			blog.PUT("/posts/:id", s.requireAuth, s.handleUpdatePost)
			blog.DELETE("/posts/:id", s.requireAuth, s.handleDeletePost)
		}

		tasks := api.Group("/tasks", s.requireAuth)
		{
			tasks.GET("", s.handleListTasks)
			tasks.GET("/my", s.handleMyTasks)
			tasks.GET("/overdue", s.handleOverdueTasks)
			tasks.GET("/stats", s.handleTaskStats)
			tasks.GET("/:id", s.handleGetTask)
			tasks.POST("", s.handleCreateTask)
			tasks.PUT("/:id", s.handleUpdateTask)
			tasks.DELETE("/:id", s.handleDeleteTask)
			tasks.POST("/:id/start", s.handleStartTask)
			tasks.POST("/:id/complete", s.handleCompleteTask)
			tasks.POST("/:id/cancel", s.handleCancelTask)
			tasks.POST("/:id/reopen", s.handleReopenTask)
		}

		users := api.Group("/users")
		{
			users.GET("/profile", s.requireAuth, s.handleMyProfile)
			users.PUT("/profile", s.requireAuth, s.handleUpdateMyProfile)
			users.POST("/profile/avatar", s.requireAuth, s.handleUploadAvatar)
			users.GET("/:id/profile", s.handleUserProfile)
			users.GET("/search", s.handleSearchUsers)
			users.GET("/leaderboard", s.handleLeaderboard)
		}
	}

	// Stored avatars are served back from the upload directory.
	s.engine.Static("/uploads", s.uploadDir)
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func (s *Server) parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid parameter: "+name)
		return 0, false
	}
	return id, true
}

// respondData wraps a payload in the success envelope.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError returns a structured error envelope.
func (s *Server) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// handleError maps an error to the matching status and envelope. Anything
// that is not a validation or not-found error is logged and reported as a
// generic 500 without leaking internals.
func (s *Server) handleError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		s.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrPostNotFound):
		s.respondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, storage.ErrTaskNotFound):
		s.respondError(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, storage.ErrUserNotFound), errors.Is(err, storage.ErrProfileNotFound):
		s.respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, storage.ErrPostPublished):
		s.respondError(c, http.StatusBadRequest, "Cannot delete published posts. Archive them first.")
	case errors.Is(err, storage.ErrEmailTaken):
		s.respondError(c, http.StatusBadRequest, "Email is already registered")
	default:
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		s.respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// formatTime renders an optional timestamp as RFC 3339 or null.
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// formatDate renders an optional date as YYYY-MM-DD or null.
func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}
