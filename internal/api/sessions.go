package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/wizard"
)

type sessionResponse struct {
	ID       string                `json:"id"`
	Step     wizard.Step           `json:"step"`
	StepName string                `json:"step_name"`
	State    models.SelectionState `json:"state"`
	Favorite bool                  `json:"favorite"`
}

func sessionKey(id string) string {
	return "api:" + id
}

func (s *Server) respondSession(c *gin.Context, status int, id string, v wizard.View) {
	resp := sessionResponse{
		ID:       id,
		Step:     v.Step,
		StepName: v.Step.String(),
		State:    v.State,
	}
	if food, ok := v.State.DrawnResult.Winner(); ok {
		resp.Favorite = s.svc.Preferences.IsFavorite(food.Name)
	}
	c.JSON(status, resp)
}

// session resolves the :id session and writes 404 when it is unknown
func (s *Server) session(c *gin.Context) (*wizard.Wizard, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusBadRequest, "session id must be a UUID")
		return nil, false
	}
	w, ok := s.sessions.Lookup(sessionKey(id))
	if !ok {
		respondError(c, http.StatusNotFound, "session not found")
		return nil, false
	}
	return w, true
}

// step runs one wizard call and answers with the resulting view
func (s *Server) step(c *gin.Context, call func(ctx context.Context, w *wizard.Wizard) (wizard.View, error)) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	v, err := call(c.Request.Context(), w)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, c.Param("id"), v)
}

func (s *Server) handleCreateSession(c *gin.Context) {
	id := uuid.NewString()
	w := s.sessions.Get(sessionKey(id))
	s.respondSession(c, http.StatusCreated, id, w.View())
}

func (s *Server) handleGetSession(c *gin.Context) {
	s.step(c, func(_ context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.View(), nil
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if _, ok := s.session(c); !ok {
		return
	}
	s.sessions.Delete(sessionKey(c.Param("id")))
	c.Status(http.StatusNoContent)
}

type scenarioRequest struct {
	Scenario       models.Scenario `json:"scenario"`
	CustomListName string          `json:"custom_list_name"`
}

func (s *Server) handleSelectScenario(c *gin.Context) {
	var req scenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	s.step(c, func(_ context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.SelectScenario(req.Scenario, req.CustomListName)
	})
}

type kindRequest struct {
	MealOrSnack models.Kind `json:"meal_or_snack"`
}

func (s *Server) handleSelectKind(c *gin.Context) {
	var req kindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	s.step(c, func(_ context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.SelectMealOrSnack(req.MealOrSnack)
	})
}

type categoryRequest struct {
	Category models.Category `json:"category"`
}

func (s *Server) handleSelectCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	s.step(c, func(_ context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.SelectCategory(req.Category)
	})
}

func (s *Server) handleNext(c *gin.Context) {
	s.step(c, func(ctx context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.Next(ctx)
	})
}

func (s *Server) handleBack(c *gin.Context) {
	s.step(c, func(_ context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.Back()
	})
}

func (s *Server) handleQuickBack(c *gin.Context) {
	s.step(c, func(_ context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.QuickBack(), nil
	})
}

type goToRequest struct {
	Step *wizard.Step `json:"step"`
}

func (s *Server) handleGoTo(c *gin.Context) {
	var req goToRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Step == nil {
		respondError(c, http.StatusBadRequest, "step is required")
		return
	}
	s.step(c, func(ctx context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.GoTo(ctx, *req.Step)
	})
}

func (s *Server) handleDrawAgain(c *gin.Context) {
	s.step(c, func(ctx context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.DrawAgain(ctx)
	})
}

func (s *Server) handleSessionFavorite(c *gin.Context) {
	s.step(c, func(ctx context.Context, w *wizard.Wizard) (wizard.View, error) {
		if _, err := w.ToggleFavorite(ctx); err != nil {
			return wizard.View{}, err
		}
		return w.View(), nil
	})
}

func (s *Server) handleSessionExclude(c *gin.Context) {
	s.step(c, func(ctx context.Context, w *wizard.Wizard) (wizard.View, error) {
		return w.Exclude(ctx)
	})
}
