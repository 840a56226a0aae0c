package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

func (s *Server) handleGetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Preferences.Snapshot())
}

func (s *Server) handlePreferenceStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Preferences.Stats())
}

// POST /api/preferences/reset?confirm=true clears favorites, blacklist and lists
func (s *Server) handleResetPreferences(c *gin.Context) {
	if !confirmed(c) {
		s.fail(c, models.ErrConfirmationRequired)
		return
	}
	if err := s.svc.Preferences.ResetAll(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.svc.Preferences.Snapshot())
}

// respondSnapshot answers a preference change with the resulting preferences
func (s *Server) respondSnapshot(c *gin.Context, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.svc.Preferences.Snapshot())
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	s.respondSnapshot(c, s.svc.Preferences.AddFavorite(c.Request.Context(), c.Param("name")))
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	s.respondSnapshot(c, s.svc.Preferences.RemoveFavorite(c.Request.Context(), c.Param("name")))
}

func (s *Server) handleToggleFavorite(c *gin.Context) {
	now, err := s.svc.Preferences.ToggleFavorite(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": now})
}

func (s *Server) handleAddToBlacklist(c *gin.Context) {
	s.respondSnapshot(c, s.svc.Preferences.AddToBlacklist(c.Request.Context(), c.Param("name")))
}

func (s *Server) handleRemoveFromBlacklist(c *gin.Context) {
	s.respondSnapshot(c, s.svc.Preferences.RemoveFromBlacklist(c.Request.Context(), c.Param("name")))
}

// ---------------------------------------------------------------------------
// Custom lists
// ---------------------------------------------------------------------------

type createListRequest struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func (s *Server) handleGetLists(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Preferences.Snapshot().CustomLists)
}

func (s *Server) handleCreateList(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.svc.Preferences.CreateCustomList(c.Request.Context(), req.Name, req.Items); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.svc.Preferences.Snapshot().CustomLists)
}

func (s *Server) handleDeleteList(c *gin.Context) {
	if err := s.svc.Preferences.DeleteCustomList(c.Request.Context(), c.Param("list")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddListItem(c *gin.Context) {
	if err := s.svc.Preferences.AddToCustomList(c.Request.Context(), c.Param("list"), c.Param("name")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.svc.Preferences.Snapshot().CustomLists)
}

func (s *Server) handleRemoveListItem(c *gin.Context) {
	if err := s.svc.Preferences.RemoveFromCustomList(c.Request.Context(), c.Param("list"), c.Param("name")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.svc.Preferences.Snapshot().CustomLists)
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Preferences.Settings())
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req models.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	settings, err := s.svc.Preferences.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleResetSettings(c *gin.Context) {
	if err := s.svc.Preferences.ResetSettings(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.svc.Preferences.Settings())
}
