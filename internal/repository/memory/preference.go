package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository"
)

var errSeedInterrupted = errors.New("seed interrupted")

// PreferenceRepository keeps each preference facet as its own value
type PreferenceRepository struct {
	Faults

	mu    sync.RWMutex
	snap  *models.PreferenceSnapshot
	saves map[string]int
}

// NewPreferenceRepository creates an empty preference repository
func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{
		snap:  models.NewPreferenceSnapshot(),
		saves: map[string]int{},
	}
}

var _ repository.PreferenceRepository = (*PreferenceRepository)(nil)

func (r *PreferenceRepository) Load(_ context.Context) (*models.PreferenceSnapshot, error) {
	if err := r.take("load"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap.Clone(), nil
}

func (r *PreferenceRepository) SaveFavorites(_ context.Context, favorites models.StringSet) error {
	return r.save(repository.FacetFavorites, func(s *models.PreferenceSnapshot) { s.Favorites = favorites.Clone() })
}

func (r *PreferenceRepository) SaveBlacklist(_ context.Context, blacklist models.StringSet) error {
	return r.save(repository.FacetBlacklist, func(s *models.PreferenceSnapshot) { s.Blacklist = blacklist.Clone() })
}

func (r *PreferenceRepository) SaveCustomLists(_ context.Context, lists map[string][]string) error {
	return r.save(repository.FacetCustomLists, func(s *models.PreferenceSnapshot) {
		s.CustomLists = make(map[string][]string, len(lists))
		for name, items := range lists {
			s.CustomLists[name] = append([]string(nil), items...)
		}
	})
}

func (r *PreferenceRepository) SaveSettings(_ context.Context, settings models.Settings) error {
	return r.save(repository.FacetSettings, func(s *models.PreferenceSnapshot) { s.Settings = settings })
}

func (r *PreferenceRepository) save(facet string, apply func(*models.PreferenceSnapshot)) error {
	if err := r.take("save_" + facet); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	apply(r.snap)
	r.saves[facet]++
	return nil
}

// Saves reports how many times a facet was written
func (r *PreferenceRepository) Saves(facet string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves[facet]
}
