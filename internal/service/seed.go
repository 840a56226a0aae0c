package service

import "github.com/Kerhoff/FoodPickerBot/internal/models"

// defaultFoods is the catalog restored by ReinitializeWithDefaults
var defaultFoods = []models.Food{
	{Name: "Braised Pork Rice", Category: models.CategoryMealRice, Calories: 650, Protein: 22, Carbs: 80, Fat: 26, Price: 50, PrepTimeMinutes: 10},
	{Name: "Chicken Rice", Category: models.CategoryMealRice, Calories: 520, Protein: 30, Carbs: 70, Fat: 12, Price: 45, PrepTimeMinutes: 10},
	{Name: "Fried Rice", Category: models.CategoryMealRice, Calories: 700, Protein: 18, Carbs: 90, Fat: 28, Price: 80, PrepTimeMinutes: 15},
	{Name: "Rice with Gravy", Category: models.CategoryMealRice, Calories: 620, Protein: 20, Carbs: 85, Fat: 20, Price: 90, PrepTimeMinutes: 15},
	{Name: "Curry Rice", Category: models.CategoryMealRice, Calories: 750, Protein: 21, Carbs: 100, Fat: 27, Price: 110, PrepTimeMinutes: 20},

	{Name: "Beef Noodle Soup", Category: models.CategoryMealNoodle, Calories: 680, Protein: 35, Carbs: 75, Fat: 24, Price: 160, PrepTimeMinutes: 20},
	{Name: "Pickled Mustard Pork Noodles", Category: models.CategoryMealNoodle, Calories: 500, Protein: 20, Carbs: 70, Fat: 14, Price: 70, PrepTimeMinutes: 10},
	{Name: "Spaghetti", Category: models.CategoryMealNoodle, Calories: 720, Protein: 25, Carbs: 95, Fat: 25, Price: 180, PrepTimeMinutes: 25},
	{Name: "Ramen", Category: models.CategoryMealNoodle, Calories: 800, Protein: 28, Carbs: 90, Fat: 34, Price: 220, PrepTimeMinutes: 15},
	{Name: "Fried Noodles", Category: models.CategoryMealNoodle, Calories: 650, Protein: 16, Carbs: 85, Fat: 26, Price: 60, PrepTimeMinutes: 10},

	{Name: "Dumplings", Category: models.CategoryMealOther, Calories: 550, Protein: 24, Carbs: 60, Fat: 22, Price: 70, PrepTimeMinutes: 15},
	{Name: "Hamburger", Category: models.CategoryMealOther, Calories: 600, Protein: 28, Carbs: 45, Fat: 33, Price: 120, PrepTimeMinutes: 10},
	{Name: "Pizza", Category: models.CategoryMealOther, Calories: 850, Protein: 32, Carbs: 95, Fat: 38, Price: 250, PrepTimeMinutes: 30},
	{Name: "Sushi", Category: models.CategoryMealOther, Calories: 450, Protein: 20, Carbs: 70, Fat: 8, Price: 280, PrepTimeMinutes: 20},
	{Name: "Hot Pot", Category: models.CategoryMealOther, Calories: 900, Protein: 45, Carbs: 60, Fat: 50, Price: 300, PrepTimeMinutes: 40},

	{Name: "Cake", Category: models.CategorySnackSweet, Calories: 400, Protein: 5, Carbs: 50, Fat: 20, Price: 90, PrepTimeMinutes: 5},
	{Name: "Ice Cream", Category: models.CategorySnackSweet, Calories: 270, Protein: 4, Carbs: 30, Fat: 14, Price: 50, PrepTimeMinutes: 2},
	{Name: "Donut", Category: models.CategorySnackSweet, Calories: 300, Protein: 4, Carbs: 35, Fat: 16, Price: 40, PrepTimeMinutes: 2},
	{Name: "Pudding", Category: models.CategorySnackSweet, Calories: 180, Protein: 4, Carbs: 28, Fat: 5, Price: 30, PrepTimeMinutes: 1},
	{Name: "Cookies", Category: models.CategorySnackSweet, Calories: 250, Protein: 3, Carbs: 32, Fat: 12, Price: 35, PrepTimeMinutes: 1},

	{Name: "Popcorn Chicken", Category: models.CategorySnackSalty, Calories: 600, Protein: 30, Carbs: 30, Fat: 38, Price: 80, PrepTimeMinutes: 15},
	{Name: "French Fries", Category: models.CategorySnackSalty, Calories: 380, Protein: 4, Carbs: 48, Fat: 19, Price: 50, PrepTimeMinutes: 8},
	{Name: "Potato Chips", Category: models.CategorySnackSalty, Calories: 540, Protein: 6, Carbs: 52, Fat: 35, Price: 35, PrepTimeMinutes: 1},
	{Name: "Popcorn", Category: models.CategorySnackSalty, Calories: 380, Protein: 8, Carbs: 60, Fat: 14, Price: 60, PrepTimeMinutes: 5},
	{Name: "Fried Chicken Cutlet", Category: models.CategorySnackSalty, Calories: 700, Protein: 40, Carbs: 35, Fat: 42, Price: 85, PrepTimeMinutes: 12},

	{Name: "Bubble Milk Tea", Category: models.CategorySnackDrink, Calories: 450, Protein: 3, Carbs: 80, Fat: 12, Price: 60, PrepTimeMinutes: 5},
	{Name: "Fruit Juice", Category: models.CategorySnackDrink, Calories: 150, Protein: 1, Carbs: 35, Fat: 0, Price: 55, PrepTimeMinutes: 5},
	{Name: "Coffee", Category: models.CategorySnackDrink, Calories: 20, Protein: 1, Carbs: 3, Fat: 0, Price: 70, PrepTimeMinutes: 5},
	{Name: "Sparkling Drink", Category: models.CategorySnackDrink, Calories: 120, Protein: 0, Carbs: 30, Fat: 0, Price: 40, PrepTimeMinutes: 1},
	{Name: "Smoothie", Category: models.CategorySnackDrink, Calories: 250, Protein: 4, Carbs: 50, Fat: 3, Price: 75, PrepTimeMinutes: 8},
}

// DefaultFoods returns fresh copies of the seed catalog
func DefaultFoods() []*models.Food {
	out := make([]*models.Food, len(defaultFoods))
	for i := range defaultFoods {
		f := defaultFoods[i]
		out[i] = &f
	}
	return out
}
