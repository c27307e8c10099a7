package services

import (
	"context"
	"testing"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func per(kcal, protein, fat, carbs, fiber float64) models.NutrientInput {
	return models.NutrientInput{
		Calories: models.Amount{Value: kcal, Unit: models.UnitKcal},
		Protein:  models.Amount{Value: protein, Unit: models.UnitGram},
		Fat:      models.Amount{Value: fat, Unit: models.UnitGram},
		Carbs:    models.Amount{Value: carbs, Unit: models.UnitGram},
		Fiber:    models.Amount{Value: fiber, Unit: models.UnitGram},
	}
}

func lunchAt(at time.Time) MealRequest {
	return MealRequest{
		MealType: "lunch",
		Date:     &at,
		Foods: []MealItemRequest{
			{FoodID: "171077", Name: "Chicken breast", Quantity: 2, Measure: "100g", Nutrients: per(165, 31, 3.6, 0, 0)},
			{FoodID: "169756", Name: "Rice, white", Quantity: 2, Measure: "100g", Nutrients: per(130, 2.5, 0.5, 28, 0.5)},
		},
	}
}

func TestAddMealComputesTotal(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())

	meal, err := svc.AddMeal(context.Background(), u.ID, lunchAt(time.Now()))
	require.NoError(t, err)

	require.Len(t, meal.Items, 2)
	assert.Equal(t, "Chicken breast", meal.Items[0].FoodLabel)
	assert.Equal(t, "Rice, white", meal.Items[1].FoodLabel)
	assert.InDelta(t, 590, meal.Total.Calories, 1e-9)
	assert.InDelta(t, 67, meal.Total.Protein, 1e-9)
	assert.InDelta(t, 8.2, meal.Total.Fat, 1e-9)
	assert.InDelta(t, 56, meal.Total.Carbs, 1e-9)
	assert.InDelta(t, 1, meal.Total.Fiber, 1e-9)
}

func TestAddMealRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	req := lunchAt(time.Now())
	req.MealType = "brunch"
	_, err := svc.AddMeal(ctx, u.ID, req)
	assert.ErrorIs(t, err, models.ErrInvalidMeal)

	req = lunchAt(time.Now())
	req.Foods[0].Nutrients.Protein = models.Amount{Value: 31, Unit: "mg"}
	_, err = svc.AddMeal(ctx, u.ID, req)
	assert.ErrorIs(t, err, models.ErrInvalidNutrients)

	req = lunchAt(time.Now())
	req.Foods[1].Nutrients.Fat = models.Amount{Value: -1}
	_, err = svc.AddMeal(ctx, u.ID, req)
	assert.ErrorIs(t, err, models.ErrInvalidNutrients)

	req = lunchAt(time.Now())
	req.Foods[0].Quantity = 0
	_, err = svc.AddMeal(ctx, u.ID, req)
	assert.ErrorIs(t, err, models.ErrInvalidMeal)
}

func TestMealOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db)
	other := seedUser(t, db, func(u *models.User) { u.Email = "other@example.com" })
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	meal, err := svc.AddMeal(ctx, owner.ID, lunchAt(time.Now()))
	require.NoError(t, err)

	_, err = svc.GetMeal(ctx, other.ID, meal.ID)
	assert.ErrorIs(t, err, ErrMealNotFound)
	_, err = svc.UpdateMeal(ctx, other.ID, meal.ID, lunchAt(time.Now()))
	assert.ErrorIs(t, err, ErrMealNotFound)
	assert.ErrorIs(t, svc.DeleteMeal(ctx, other.ID, meal.ID), ErrMealNotFound)

	_, err = svc.GetMeal(ctx, owner.ID, meal.ID)
	assert.NoError(t, err)
}

func TestUpdateMealReplacesItems(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	meal, err := svc.AddMeal(ctx, u.ID, lunchAt(time.Now()))
	require.NoError(t, err)

	at := time.Now().Add(-time.Hour)
	updated, err := svc.UpdateMeal(ctx, u.ID, meal.ID, MealRequest{
		MealType: "dinner",
		Date:     &at,
		Notes:    "lighter",
		Foods: []MealItemRequest{
			{FoodID: "1", Name: "Apple", Quantity: 1, Nutrients: per(52, 0.3, 0.2, 14, 2.4)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MealDinner, updated.Type)
	assert.Equal(t, "lighter", updated.Notes)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Apple", updated.Items[0].FoodLabel)
	assert.InDelta(t, 52, updated.Total.Calories, 1e-9)

	var n int64
	require.NoError(t, db.Model(&models.MealItem{}).Where("meal_id = ?", meal.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestDeleteMeal(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	meal, err := svc.AddMeal(ctx, u.ID, lunchAt(time.Now()))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMeal(ctx, u.ID, meal.ID))

	_, err = svc.GetMeal(ctx, u.ID, meal.ID)
	assert.ErrorIs(t, err, ErrMealNotFound)
	assert.ErrorIs(t, svc.DeleteMeal(ctx, u.ID, meal.ID), ErrMealNotFound)
}

func TestListMealsFilters(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	start, _ := TodayRange(time.Now())
	_, err := svc.AddMeal(ctx, u.ID, lunchAt(start.Add(time.Minute)))
	require.NoError(t, err)
	snack := lunchAt(start.Add(2 * time.Minute))
	snack.MealType = "snack"
	_, err = svc.AddMeal(ctx, u.ID, snack)
	require.NoError(t, err)
	_, err = svc.AddMeal(ctx, u.ID, lunchAt(start.Add(-48*time.Hour)))
	require.NoError(t, err)

	today, err := svc.ListMeals(ctx, u.ID, MealFilter{})
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, models.MealSnack, today[0].Type, "newest first")

	lunches, err := svc.ListMeals(ctx, u.ID, MealFilter{From: start.Add(-72 * time.Hour), To: start.Add(24 * time.Hour), Type: models.MealLunch})
	require.NoError(t, err)
	assert.Len(t, lunches, 2)
}

func TestListMealsByDateRangeIsInclusive(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{from, from.Add(30 * time.Hour), to, to.Add(time.Second)} {
		_, err := svc.AddMeal(ctx, u.ID, lunchAt(at))
		require.NoError(t, err)
	}

	meals, err := svc.ListMealsByDateRange(ctx, u.ID, from, to)
	require.NoError(t, err)
	require.Len(t, meals, 3)
	assert.True(t, meals[0].AteAt.Equal(from))
	assert.True(t, meals[2].AteAt.Equal(to))
	for _, m := range meals {
		assert.InDelta(t, 590, m.Total.Calories, 1e-9, "totals are recomputed after preload")
	}
}

func TestAddMealWarnsAboutAllergens(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, func(u *models.User) { u.Allergies = []string{"peanuts"} })
	svc := NewMealService(db, quietBus(db), nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	at := time.Now()
	_, err := svc.AddMeal(ctx, u.ID, MealRequest{
		MealType: "snack",
		Date:     &at,
		Foods: []MealItemRequest{
			{FoodID: "a", Name: "Peanut butter toast", Quantity: 1, Nutrients: per(300, 10, 16, 30, 3)},
			{FoodID: "b", Name: "Banana", Quantity: 1, Nutrients: per(89, 1.1, 0.3, 23, 2.6)},
		},
	})
	require.NoError(t, err)

	var alerts []models.Alert
	require.NoError(t, db.Where("user_id = ?", u.ID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, "meal", alerts[0].Source)
	assert.Contains(t, alerts[0].Message, "Peanut butter toast")
}

func TestMealStats(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	start, _ := TodayRange(time.Now())
	_, err := svc.AddMeal(ctx, u.ID, lunchAt(start.Add(time.Minute)))
	require.NoError(t, err)

	st, err := svc.Stats(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "today", st.Period)
	assert.Equal(t, 1, st.MealCount)
	assert.InDelta(t, 590, st.CurrentIntake.Calories, 1e-9)
	require.NotNil(t, st.NutritionNeeds)
	assert.Equal(t, 2099.0, st.NutritionNeeds.Calories)
	require.NotNil(t, st.Progress)
	assert.Equal(t, 0.28, st.Progress.Calories)
	require.Len(t, st.Days, 1)

	_, err = svc.Stats(ctx, u.ID, "decade")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestListRecentMealItems(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewMealService(db, nil, nutrition.DefaultGoalPolicy())
	ctx := context.Background()

	_, err := svc.AddMeal(ctx, u.ID, lunchAt(time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	items, err := svc.ListRecentMealItems(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chicken breast", items[0].FoodLabel)
	assert.Equal(t, 330.0, items[0].Calories)
}
