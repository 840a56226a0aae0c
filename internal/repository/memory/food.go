// Package memory provides in-process repositories used by tests and by
// isolated instances that do not need durable storage.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Kerhoff/FoodPickerBot/internal/models"
	"github.com/Kerhoff/FoodPickerBot/internal/repository"
)

// Faults lets tests make the next call of a named operation fail
type Faults struct {
	mu   sync.Mutex
	next map[string][]error
}

// FailNext queues err for the next call of op
func (f *Faults) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == nil {
		f.next = map[string][]error{}
	}
	f.next[op] = append(f.next[op], err)
}

func (f *Faults) take(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	queue := f.next[op]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	f.next[op] = queue[1:]
	return err
}

// FoodRepository keeps the catalog in a map keyed by id
type FoodRepository struct {
	Faults

	mu     sync.RWMutex
	foods  map[int64]*models.Food
	nextID int64
	// SeedFailAfter makes ReplaceAll fail after inserting that many foods when positive
	SeedFailAfter int
}

// NewFoodRepository creates an empty in-memory catalog
func NewFoodRepository() *FoodRepository {
	return &FoodRepository{foods: map[int64]*models.Food{}}
}

var _ repository.FoodRepository = (*FoodRepository)(nil)

func (r *FoodRepository) Create(_ context.Context, food *models.Food) (*models.Food, error) {
	if err := r.take("create"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(food)
	return food.Clone(), nil
}

func (r *FoodRepository) insertLocked(food *models.Food) {
	r.nextID++
	now := time.Now()
	food.ID = r.nextID
	food.CreatedAt = now
	food.UpdatedAt = now
	r.foods[food.ID] = food.Clone()
}

func (r *FoodRepository) GetByID(_ context.Context, id int64) (*models.Food, error) {
	if err := r.take("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.foods[id].Clone(), nil
}

func (r *FoodRepository) GetAll(_ context.Context) ([]*models.Food, error) {
	if err := r.take("list"); err != nil {
		return nil, err
	}
	return r.filter(func(*models.Food) bool { return true }), nil
}

func (r *FoodRepository) GetByCategory(_ context.Context, category models.Category) ([]*models.Food, error) {
	if err := r.take("list_by_category"); err != nil {
		return nil, err
	}
	return r.filter(func(f *models.Food) bool { return f.Category == category }), nil
}

func (r *FoodRepository) GetByName(_ context.Context, name string) (*models.Food, error) {
	if err := r.take("get_by_name"); err != nil {
		return nil, err
	}
	matches := r.filter(func(f *models.Food) bool { return f.Name == name })
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// filter returns clones ordered by id
func (r *FoodRepository) filter(keep func(*models.Food) bool) []*models.Food {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Food{}
	for _, f := range r.foods {
		if keep(f) {
			out = append(out, f.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *FoodRepository) Update(_ context.Context, food *models.Food) (*models.Food, error) {
	if err := r.take("update"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.foods[food.ID]
	if !ok {
		return nil, &models.NotFoundError{Kind: "food", Key: strconv.FormatInt(food.ID, 10)}
	}
	food.CreatedAt = existing.CreatedAt
	food.UpdatedAt = time.Now()
	r.foods[food.ID] = food.Clone()
	return food.Clone(), nil
}

func (r *FoodRepository) Delete(_ context.Context, id int64) (bool, error) {
	if err := r.take("delete"); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.foods[id]
	delete(r.foods, id)
	return ok, nil
}

func (r *FoodRepository) Count(_ context.Context) (int, error) {
	if err := r.take("count"); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.foods), nil
}

func (r *FoodRepository) ReplaceAll(_ context.Context, foods []*models.Food) error {
	if err := r.take("replace_all"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.foods = map[int64]*models.Food{}
	staged := make([]*models.Food, 0, len(foods))
	for i, f := range foods {
		if r.SeedFailAfter > 0 && i == r.SeedFailAfter {
			return &models.StorageUnavailableError{Op: "seed foods", Err: errSeedInterrupted}
		}
		staged = append(staged, f)
	}
	for _, f := range staged {
		r.insertLocked(f)
	}
	return nil
}
