package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/config"
	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/wizard"
)

// StorageState reports the database lifecycle state for health checks
type StorageState interface {
	State() int32
}

// Server provides the JSON HTTP API.
type Server struct {
	svc      *service.Service
	sessions *wizard.Sessions
	storage  StorageState
	logger   *logrus.Logger
	engine   *gin.Engine
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, sessions *wizard.Sessions, storage StorageState, logger *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		svc:      svc,
		sessions: sessions,
		storage:  storage,
		logger:   logger,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")

	// Catalog
	foods := api.Group("/foods")
	{
		foods.GET("", s.handleGetFoods)
		foods.POST("", s.handleCreateFood)
		foods.GET("/grouped", s.handleGroupedFoods)
		foods.POST("/reset", s.handleResetFoods)
		foods.GET("/:id", s.handleGetFood)
		foods.PUT("/:id", s.handleUpdateFood)
		foods.DELETE("/:id", s.handleDeleteFood)
	}

	// Preferences
	prefs := api.Group("/preferences")
	{
		prefs.GET("", s.handleGetPreferences)
		prefs.GET("/stats", s.handlePreferenceStats)
		prefs.POST("/reset", s.handleResetPreferences)

		prefs.PUT("/favorites/:name", s.handleAddFavorite)
		prefs.DELETE("/favorites/:name", s.handleRemoveFavorite)
		prefs.POST("/favorites/:name/toggle", s.handleToggleFavorite)

		prefs.PUT("/blacklist/:name", s.handleAddToBlacklist)
		prefs.DELETE("/blacklist/:name", s.handleRemoveFromBlacklist)

		prefs.GET("/lists", s.handleGetLists)
		prefs.POST("/lists", s.handleCreateList)
		prefs.DELETE("/lists/:list", s.handleDeleteList)
		prefs.PUT("/lists/:list/items/:name", s.handleAddListItem)
		prefs.DELETE("/lists/:list/items/:name", s.handleRemoveListItem)

		prefs.GET("/settings", s.handleGetSettings)
		prefs.PATCH("/settings", s.handleUpdateSettings)
		prefs.POST("/settings/reset", s.handleResetSettings)
	}

	// Picker sessions
	sessions := api.Group("/sessions")
	{
		sessions.POST("", s.handleCreateSession)
		sessions.GET("/:id", s.handleGetSession)
		sessions.DELETE("/:id", s.handleDeleteSession)
		sessions.POST("/:id/scenario", s.handleSelectScenario)
		sessions.POST("/:id/kind", s.handleSelectKind)
		sessions.POST("/:id/category", s.handleSelectCategory)
		sessions.POST("/:id/next", s.handleNext)
		sessions.POST("/:id/back", s.handleBack)
		sessions.POST("/:id/quick-back", s.handleQuickBack)
		sessions.POST("/:id/goto", s.handleGoTo)
		sessions.POST("/:id/draw-again", s.handleDrawAgain)
		sessions.POST("/:id/favorite", s.handleSessionFavorite)
		sessions.POST("/:id/exclude", s.handleSessionExclude)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("HTTP request")
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsDuplicateName(err),
		errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrNoPick):
		return http.StatusConflict
	case errors.Is(err, models.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case models.IsStorageUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err and logs unexpected failures
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err,
		}).Error("API request failed")
	}
	if status == http.StatusInternalServerError {
		respondError(c, status, "internal error")
		return
	}
	respondError(c, status, err.Error())
}

// pathID extracts the :id path value and converts it to int64.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// confirmed reports whether the request carries confirm=true
func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(c *gin.Context) {
	state := "ready"
	status := http.StatusOK
	if s.storage != nil && s.storage.State() != config.StateReady {
		state = "unavailable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": state, "sessions": s.sessions.Len()})
}
