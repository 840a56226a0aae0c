package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

type foodRequest struct {
	Name            string          `json:"name"`
	Category        models.Category `json:"category"`
	Calories        float64         `json:"calories"`
	Protein         float64         `json:"protein"`
	Carbs           float64         `json:"carbs"`
	Fat             float64         `json:"fat"`
	Price           int             `json:"price"`
	PrepTimeMinutes int             `json:"prep_time_minutes"`
}

func (r foodRequest) food(id int64) models.Food {
	return models.Food{
		ID:              id,
		Name:            r.Name,
		Category:        r.Category,
		Calories:        r.Calories,
		Protein:         r.Protein,
		Carbs:           r.Carbs,
		Fat:             r.Fat,
		Price:           r.Price,
		PrepTimeMinutes: r.PrepTimeMinutes,
	}
}

func (s *Server) handleGetFoods(c *gin.Context) {
	var (
		foods []*models.Food
		err   error
	)
	if category := c.Query("category"); category != "" {
		foods, err = s.svc.Catalog.GetByCategory(c.Request.Context(), models.Category(category))
	} else {
		foods, err = s.svc.Catalog.GetAll(c.Request.Context())
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (s *Server) handleGroupedFoods(c *gin.Context) {
	groups, err := s.svc.Catalog.Grouped(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (s *Server) handleGetFood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	food, err := s.svc.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if food == nil {
		respondError(c, http.StatusNotFound, "food not found")
		return
	}
	c.JSON(http.StatusOK, food)
}

func (s *Server) handleCreateFood(c *gin.Context) {
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	id, err := s.svc.Catalog.Insert(c.Request.Context(), req.food(0))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleUpdateFood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.svc.Catalog.Update(c.Request.Context(), req.food(id)); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteFood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.Catalog.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/foods/reset?confirm=true
func (s *Server) handleResetFoods(c *gin.Context) {
	if err := s.svc.Catalog.ReinitializeWithDefaults(c.Request.Context(), confirmed(c)); err != nil {
		s.fail(c, err)
		return
	}
	foods, err := s.svc.Catalog.GetAll(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": len(foods)})
}
