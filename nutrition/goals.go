package nutrition

import (
	"fmt"
	"math"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
)

// GoalPolicy holds the calorie adjustment and macro split constants.
type GoalPolicy struct {
	LossFactor float64 // applied to TDEE when target < weight
	GainFactor float64 // applied to TDEE when target > weight

	ProteinShare float64 // share of calories
	FatShare     float64
	CarbShare    float64

	KcalPerGramProtein float64
	KcalPerGramFat     float64
	KcalPerGramCarb    float64

	FiberPer1000Kcal float64
}

func DefaultGoalPolicy() GoalPolicy {
	return GoalPolicy{
		LossFactor:         0.85,
		GainFactor:         1.15,
		ProteinShare:       0.25,
		FatShare:           0.30,
		CarbShare:          0.45,
		KcalPerGramProtein: 4,
		KcalPerGramFat:     9,
		KcalPerGramCarb:    4,
		FiberPer1000Kcal:   14,
	}
}

// Goals is the derived daily target set. It is never persisted.
type Goals struct {
	Calories float64 `json:"calorieGoal"`
	Protein  float64 `json:"proteinGoal"`
	Fat      float64 `json:"fatGoal"`
	Carbs    float64 `json:"carbGoal"`
	Fiber    float64 `json:"fiberGoal"`
}

func (g Goals) Vector() models.NutrientVector {
	return models.NutrientVector{
		Calories: g.Calories,
		Protein:  g.Protein,
		Fat:      g.Fat,
		Carbs:    g.Carbs,
		Fiber:    g.Fiber,
	}
}

// CalorieGoal adjusts TDEE toward an optional target weight.
func (p GoalPolicy) CalorieGoal(tdee, weightKg float64, targetKg *float64) float64 {
	switch {
	case targetKg != nil && *targetKg < weightKg:
		return math.Round(tdee * p.LossFactor)
	case targetKg != nil && *targetKg > weightKg:
		return math.Round(tdee * p.GainFactor)
	default:
		return tdee
	}
}

// Macros splits a calorie goal into gram targets.
func (p GoalPolicy) Macros(calorieGoal float64) (Goals, error) {
	if !(calorieGoal > 0) {
		return Goals{}, fmt.Errorf("%w: calorie goal %.0f", ErrInvalidGoal, calorieGoal)
	}
	return Goals{
		Calories: calorieGoal,
		Protein:  math.Round(calorieGoal * p.ProteinShare / p.KcalPerGramProtein),
		Fat:      math.Round(calorieGoal * p.FatShare / p.KcalPerGramFat),
		Carbs:    math.Round(calorieGoal * p.CarbShare / p.KcalPerGramCarb),
		Fiber:    math.Round(calorieGoal / 1000 * p.FiberPer1000Kcal),
	}, nil
}

// GoalsFor runs calculator and adjuster for a user profile.
func (p GoalPolicy) GoalsFor(u *models.User) (Goals, error) {
	stats, err := StatsFor(u)
	if err != nil {
		return Goals{}, err
	}
	return p.Macros(p.CalorieGoal(stats.DailyCalories, u.Weight, u.TargetWeight))
}
