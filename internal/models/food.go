package models

import "time"

// Category identifies the sub-category a food belongs to
type Category string

const (
	CategoryMealRice   Category = "meal-rice"
	CategoryMealNoodle Category = "meal-noodle"
	CategoryMealOther  Category = "meal-other"
	CategorySnackSweet Category = "snack-sweet"
	CategorySnackSalty Category = "snack-salty"
	CategorySnackDrink Category = "snack-drink"
)

// Kind splits the categories into main meals and snacks
type Kind string

const (
	KindUnset Kind = ""
	KindMeal  Kind = "meal"
	KindSnack Kind = "snack"
)

// DefaultPrepTimeMinutes is applied when a food is stored without a prep time.
const DefaultPrepTimeMinutes = 10

const (
	MinPrepTimeMinutes = 1
	MaxPrepTimeMinutes = 120
)

var categoryOrder = []Category{
	CategoryMealRice, CategoryMealNoodle, CategoryMealOther,
	CategorySnackSweet, CategorySnackSalty, CategorySnackDrink,
}

var categoryLabels = map[Category]string{
	CategoryMealRice:   "🍚 Meal - Rice",
	CategoryMealNoodle: "🍜 Meal - Noodles",
	CategoryMealOther:  "🍽️ Meal - Other",
	CategorySnackSweet: "🍰 Snack - Sweet",
	CategorySnackSalty: "🍟 Snack - Salty",
	CategorySnackDrink: "🥤 Snack - Drink",
}

// Categories returns every category in display order
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// CategoriesFor returns the three categories offered for a meal or snack choice
func CategoriesFor(kind Kind) []Category {
	var out []Category
	for _, c := range categoryOrder {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Kind returns whether the category is a meal or a snack
func (c Category) Kind() Kind {
	switch c {
	case CategoryMealRice, CategoryMealNoodle, CategoryMealOther:
		return KindMeal
	case CategorySnackSweet, CategorySnackSalty, CategorySnackDrink:
		return KindSnack
	default:
		return KindUnset
	}
}

// Label returns a human readable category name
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether k is meal or snack
func (k Kind) Valid() bool {
	return k == KindMeal || k == KindSnack
}

// Food represents a catalog entry
type Food struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Category        Category  `json:"category" db:"category"`
	Calories        float64   `json:"calories" db:"calories"`
	Protein         float64   `json:"protein" db:"protein"`
	Carbs           float64   `json:"carbs" db:"carbs"`
	Fat             float64   `json:"fat" db:"fat"`
	Price           int       `json:"price" db:"price"`
	PrepTimeMinutes int       `json:"prep_time_minutes" db:"prep_time_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy that can be handed out without sharing the record
func (f *Food) Clone() *Food {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
