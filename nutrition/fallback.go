package nutrition

import "github.com/Waqasktk456/whichFOOD-EXAM/models"

// Generic foods served when no provider lookup succeeds. Values are per 100 g.
var fallbackFoods = []FoodCandidate{
	{ID: "fallback-eggs", Name: "Eggs, whole, boiled", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 155, Protein: 12.6, Fat: 10.6, Carbs: 1.1, Fiber: 0}},
	{ID: "fallback-greek-yogurt", Name: "Greek yogurt, plain, nonfat", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 59, Protein: 10.2, Fat: 0.4, Carbs: 3.6, Fiber: 0}},
	{ID: "fallback-chicken-breast", Name: "Chicken breast, roasted", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 165, Protein: 31, Fat: 3.6, Carbs: 0, Fiber: 0}},
	{ID: "fallback-salmon", Name: "Salmon, Atlantic, cooked", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 206, Protein: 22.1, Fat: 12.4, Carbs: 0, Fiber: 0}},
	{ID: "fallback-tofu", Name: "Tofu, firm", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 144, Protein: 17.3, Fat: 8.7, Carbs: 2.8, Fiber: 2.3}},
	{ID: "fallback-lentils", Name: "Lentils, boiled", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 116, Protein: 9, Fat: 0.4, Carbs: 20.1, Fiber: 7.9}},
	{ID: "fallback-chickpeas", Name: "Chickpeas, boiled", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 164, Protein: 8.9, Fat: 2.6, Carbs: 27.4, Fiber: 7.6}},
	{ID: "fallback-oatmeal", Name: "Oatmeal, cooked", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 71, Protein: 2.5, Fat: 1.5, Carbs: 12, Fiber: 1.7}},
	{ID: "fallback-brown-rice", Name: "Brown rice, cooked", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 123, Protein: 2.7, Fat: 1, Carbs: 25.6, Fiber: 1.6}},
	{ID: "fallback-banana", Name: "Banana, raw", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 89, Protein: 1.1, Fat: 0.3, Carbs: 22.8, Fiber: 2.6}},
	{ID: "fallback-apple", Name: "Apple, raw", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 52, Protein: 0.3, Fat: 0.2, Carbs: 13.8, Fiber: 2.4}},
	{ID: "fallback-broccoli", Name: "Broccoli, steamed", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 35, Protein: 2.4, Fat: 0.4, Carbs: 7.2, Fiber: 3.3}},
	{ID: "fallback-spinach", Name: "Spinach, raw", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 23, Protein: 2.9, Fat: 0.4, Carbs: 3.6, Fiber: 2.2}},
	{ID: "fallback-avocado", Name: "Avocado, raw", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 160, Protein: 2, Fat: 14.7, Carbs: 8.5, Fiber: 6.7}},
	{ID: "fallback-almonds", Name: "Almonds", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 579, Protein: 21.2, Fat: 49.9, Carbs: 21.6, Fiber: 12.5}},
	{ID: "fallback-sweet-potato", Name: "Sweet potato, baked", Category: "generic-foods", Nutrients: models.NutrientVector{Calories: 90, Protein: 2, Fat: 0.2, Carbs: 20.7, Fiber: 3.3}},
}

// Fallback ranks the static table for a focus after dropping foods the user
// cannot eat. Every result is marked Fallback.
func Fallback(f Focus, allergies, restrictions []string, limit int) []FoodCandidate {
	allowed := make([]FoodCandidate, 0, len(fallbackFoods))
	for _, c := range fallbackFoods {
		if !FilterAllowed(c.Name, allergies, restrictions) {
			continue
		}
		c.Measure = "100g"
		c.Fallback = true
		allowed = append(allowed, c)
	}
	return Rank(allowed, f, limit)
}
