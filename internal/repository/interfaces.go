package repository

import (
	"context"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
)

// FoodRepository defines the interface for catalog data operations
type FoodRepository interface {
	Create(ctx context.Context, food *models.Food) (*models.Food, error)
	GetByID(ctx context.Context, id int64) (*models.Food, error)
	GetAll(ctx context.Context) ([]*models.Food, error)
	GetByCategory(ctx context.Context, category models.Category) ([]*models.Food, error)
	GetByName(ctx context.Context, name string) (*models.Food, error)
	Update(ctx context.Context, food *models.Food) (*models.Food, error)
	// Delete reports whether a row was removed
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	// ReplaceAll clears the catalog and inserts foods atomically. When the
	// insert fails the catalog is left empty.
	ReplaceAll(ctx context.Context, foods []*models.Food) error
}

// Preference facet keys. Each facet is stored on its own.
const (
	FacetFavorites   = "favorites"
	FacetBlacklist   = "blacklist"
	FacetCustomLists = "custom_lists"
	FacetSettings    = "settings"
)

// PreferenceRepository defines the interface for preference persistence
type PreferenceRepository interface {
	// Load returns every stored facet; missing facets take their defaults
	Load(ctx context.Context) (*models.PreferenceSnapshot, error)
	SaveFavorites(ctx context.Context, favorites models.StringSet) error
	SaveBlacklist(ctx context.Context, blacklist models.StringSet) error
	SaveCustomLists(ctx context.Context, lists map[string][]string) error
	SaveSettings(ctx context.Context, settings models.Settings) error
}
