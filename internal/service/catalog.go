package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FoodPickerBot/internal/metrics"
	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository"
)

// Catalog is the persistent food catalog
type Catalog struct {
	repo    repository.FoodRepository
	guard   *storageGuard
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

func newCatalog(repo repository.FoodRepository, guard *storageGuard, logger *logrus.Logger, m *metrics.Metrics) *Catalog {
	return &Catalog{repo: repo, guard: guard, logger: logger, metrics: m}
}

// CategoryGroup is one category and the foods filed under it
type CategoryGroup struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Foods    []*models.Food  `json:"foods"`
}

// normalizeFood trims the name, applies defaults and validates every field
func normalizeFood(food *models.Food) error {
	food.Name = strings.TrimSpace(food.Name)
	if food.Name == "" {
		return models.NewValidationError("name", "must not be empty")
	}
	if !food.Category.Valid() {
		return models.NewValidationError("category", fmt.Sprintf("unknown category %q", food.Category))
	}
	for field, v := range map[string]float64{
		"calories": food.Calories,
		"protein":  food.Protein,
		"carbs":    food.Carbs,
		"fat":      food.Fat,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return models.NewValidationError(field, "must be a non-negative number")
		}
	}
	if food.Price < 0 {
		return models.NewValidationError("price", "must not be negative")
	}
	if food.PrepTimeMinutes == 0 {
		food.PrepTimeMinutes = models.DefaultPrepTimeMinutes
	}
	if food.PrepTimeMinutes < models.MinPrepTimeMinutes || food.PrepTimeMinutes > models.MaxPrepTimeMinutes {
		return models.NewValidationError("prep_time_minutes",
			fmt.Sprintf("must be between %d and %d", models.MinPrepTimeMinutes, models.MaxPrepTimeMinutes))
	}
	return nil
}

// Insert validates and stores a new food, returning its id
func (c *Catalog) Insert(ctx context.Context, food models.Food) (int64, error) {
	food.ID = 0
	if err := normalizeFood(&food); err != nil {
		c.metrics.StoreOp("insert", err)
		return 0, err
	}

	var created *models.Food
	err := c.guard.do(ctx, "insert", func() error {
		var err error
		created, err = c.repo.Create(ctx, &food)
		return err
	})
	if err != nil {
		return 0, err
	}

	c.logger.WithFields(logrus.Fields{
		"food_id":  created.ID,
		"name":     created.Name,
		"category": created.Category,
	}).Info("Food added to catalog")
	return created.ID, nil
}

// Update replaces the food with the same id
func (c *Catalog) Update(ctx context.Context, food models.Food) error {
	if err := normalizeFood(&food); err != nil {
		c.metrics.StoreOp("update", err)
		return err
	}
	return c.guard.do(ctx, "update", func() error {
		_, err := c.repo.Update(ctx, &food)
		return err
	})
}

// Delete removes a food. Deleting an unknown id succeeds.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	var deleted bool
	err := c.guard.do(ctx, "delete", func() error {
		var err error
		deleted, err = c.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if deleted {
		c.logger.WithField("food_id", id).Info("Food removed from catalog")
	}
	return nil
}

// Get returns a food by id, or nil
func (c *Catalog) Get(ctx context.Context, id int64) (*models.Food, error) {
	var food *models.Food
	err := c.guard.do(ctx, "get", func() error {
		var err error
		food, err = c.repo.GetByID(ctx, id)
		return err
	})
	return food, err
}

// GetAll returns every food ordered by id
func (c *Catalog) GetAll(ctx context.Context) ([]*models.Food, error) {
	var foods []*models.Food
	err := c.guard.do(ctx, "get_all", func() error {
		var err error
		foods, err = c.repo.GetAll(ctx)
		return err
	})
	return foods, err
}

// GetByCategory returns the foods filed under category
func (c *Catalog) GetByCategory(ctx context.Context, category models.Category) ([]*models.Food, error) {
	if !category.Valid() {
		return nil, models.NewValidationError("category", fmt.Sprintf("unknown category %q", category))
	}
	var foods []*models.Food
	err := c.guard.do(ctx, "get_by_category", func() error {
		var err error
		foods, err = c.repo.GetByCategory(ctx, category)
		return err
	})
	return foods, err
}

// GetByName returns the first food with exactly this name, or nil. Names are
// not unique; which duplicate is returned is not part of the contract.
func (c *Catalog) GetByName(ctx context.Context, name string) (*models.Food, error) {
	var food *models.Food
	err := c.guard.do(ctx, "get_by_name", func() error {
		var err error
		food, err = c.repo.GetByName(ctx, name)
		return err
	})
	return food, err
}

// Grouped returns the catalog grouped by category in display order, skipping
// empty categories
func (c *Catalog) Grouped(ctx context.Context) ([]CategoryGroup, error) {
	foods, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := map[models.Category][]*models.Food{}
	for _, f := range foods {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}
	var groups []CategoryGroup
	for _, cat := range models.Categories() {
		if len(byCategory[cat]) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: cat, Label: cat.Label(), Foods: byCategory[cat]})
	}
	return groups, nil
}

// ReinitializeWithDefaults wipes the catalog and restores the seed foods. The
// caller must pass confirmed=true after asking the user. If seeding fails the
// catalog is left empty and the call can be retried.
func (c *Catalog) ReinitializeWithDefaults(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return models.ErrConfirmationRequired
	}

	err := c.guard.do(ctx, "reinitialize", func() error {
		return c.repo.ReplaceAll(ctx, DefaultFoods())
	})
	if err != nil {
		c.logger.WithError(err).Error("Failed to reinitialize catalog")
		return err
	}

	c.metrics.SetCatalogSize(len(defaultFoods))
	c.logger.WithField("foods", len(defaultFoods)).Info("Catalog reinitialized with defaults")
	return nil
}

// SeedIfEmpty restores the seed foods when the catalog has no foods at all.
// It reports whether seeding happened.
func (c *Catalog) SeedIfEmpty(ctx context.Context) (bool, error) {
	var n int
	err := c.guard.do(ctx, "count", func() error {
		var err error
		n, err = c.repo.Count(ctx)
		return err
	})
	if err != nil {
		return false, err
	}
	c.metrics.SetCatalogSize(n)
	if n > 0 {
		return false, nil
	}
	return true, c.ReinitializeWithDefaults(ctx, true)
}
