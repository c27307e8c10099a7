package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"

	"gorm.io/gorm"
)

var ErrMealNotFound = errors.New("meal not found")

type MealService struct {
	db     *gorm.DB
	alerts *AlertBus
	policy nutrition.GoalPolicy
}

// NewMealService takes an optional alert bus for allergen warnings.
func NewMealService(db *gorm.DB, alerts *AlertBus, policy nutrition.GoalPolicy) *MealService {
	return &MealService{db: db, alerts: alerts, policy: policy}
}

type MealItemRequest struct {
	FoodID    string               `json:"foodId" binding:"required"`
	Name      string               `json:"name" binding:"required"`
	Quantity  float64              `json:"quantity" binding:"required,gt=0"`
	Measure   string               `json:"measureLabel"`
	Nutrients models.NutrientInput `json:"nutrients"`
}

type MealRequest struct {
	MealType string            `json:"mealType" binding:"required"`
	Date     *time.Time        `json:"date"`
	Notes    string            `json:"notes"`
	Foods    []MealItemRequest `json:"foods" binding:"required,min=1,dive"`
}

// toModel validates the request and converts it into an unsaved meal.
func (r MealRequest) toModel(userID uint) (*models.Meal, error) {
	mt, err := models.ParseMealType(r.MealType)
	if err != nil {
		return nil, err
	}
	ateAt := time.Now().UTC()
	if r.Date != nil {
		ateAt = r.Date.UTC()
	}

	meal := &models.Meal{UserID: userID, Type: mt, AteAt: ateAt, Notes: strings.TrimSpace(r.Notes)}
	for i, f := range r.Foods {
		per, err := f.Nutrients.Vector()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		meal.Items = append(meal.Items, models.MealItem{
			FoodID:    strings.TrimSpace(f.FoodID),
			FoodLabel: strings.TrimSpace(f.Name),
			Quantity:  f.Quantity,
			Measure:   f.Measure,
			Nutrients: per,
		})
	}
	if err := meal.Validate(); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MealService) AddMeal(ctx context.Context, userID uint, req MealRequest) (*models.Meal, error) {
	meal, err := req.toModel(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	s.warnAllergens(ctx, meal)
	return s.GetMeal(ctx, userID, meal.ID)
}

// warnAllergens raises one alert per logged item that matches a declared allergy.
func (s *MealService) warnAllergens(ctx context.Context, meal *models.Meal) {
	if s.alerts == nil {
		return
	}
	var u models.User
	if err := s.db.WithContext(ctx).Select("id", "allergies").First(&u, meal.UserID).Error; err != nil {
		return
	}
	if len(u.Allergies) == 0 {
		return
	}
	for _, it := range meal.Items {
		if nutrition.FilterAllowed(it.FoodLabel, u.Allergies, nil) {
			continue
		}
		_, _ = s.alerts.Emit(ctx, meal.UserID, AlertInput{
			Level:    models.AlertWarning,
			Source:   "meal",
			SourceID: meal.ID,
			Message:  fmt.Sprintf("%s may contain one of your allergens", it.FoodLabel),
		})
	}
}

type MealFilter struct {
	From, To time.Time
	Type     models.MealType // empty for all
}

// TodayRange is [00:00 UTC today, 00:00 UTC tomorrow).
func TodayRange(now time.Time) (time.Time, time.Time) {
	y, m, d := now.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// ListMeals returns meals in [From, To), newest first. A zero range means today.
func (s *MealService) ListMeals(ctx context.Context, userID uint, f MealFilter) ([]models.Meal, error) {
	if f.From.IsZero() && f.To.IsZero() {
		f.From, f.To = TodayRange(time.Now())
	}
	q := s.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ?", userID)
	if !f.From.IsZero() {
		q = q.Where("ate_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("ate_at < ?", f.To.UTC())
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	var meals []models.Meal
	err := q.Order("ate_at DESC").Find(&meals).Error
	return meals, err
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (s *MealService) GetMeal(ctx context.Context, userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMealNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// UpdateMeal replaces the meal's fields and its whole item list.
func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID uint, req MealRequest) (*models.Meal, error) {
	next, err := req.toModel(userID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMealNotFound
			}
			return err
		}
		if err := tx.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		meal.Type = next.Type
		meal.AteAt = next.AteAt
		meal.Notes = next.Notes
		meal.Items = next.Items
		for i := range meal.Items {
			meal.Items[i].MealID = meal.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&meal).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetMeal(ctx, userID, mealID)
}

func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", mealID, userID).Delete(&models.Meal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMealNotFound
		}
		return tx.Where("meal_id = ?", mealID).Delete(&models.MealItem{}).Error
	})
}

// ListMealsByDateRange returns meals with from <= ateAt <= to, oldest first.
func (s *MealService) ListMealsByDateRange(ctx context.Context, userID uint, from, to time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ? AND ate_at >= ? AND ate_at <= ?", userID, from.UTC(), to.UTC()).
		Order("ate_at ASC").
		Find(&meals).Error
	return meals, err
}

type RecentMealItem struct {
	ID        uint      `json:"id"`
	MealID    uint      `json:"mealId"`
	FoodLabel string    `json:"name"`
	Calories  float64   `json:"calories"`
	AteAt     time.Time `json:"date"`
}

// ListRecentMealItems is a flat list of the latest logged foods.
func (s *MealService) ListRecentMealItems(ctx context.Context, userID uint, limit int) ([]RecentMealItem, error) {
	if limit <= 0 {
		limit = 3
	}
	var rows []struct {
		ID           uint
		MealID       uint
		FoodLabel    string
		Quantity     float64
		UnitCalories float64
		AteAt        time.Time
	}
	err := s.db.WithContext(ctx).
		Table("meal_items").
		Select("meal_items.id, meal_items.meal_id, meal_items.food_label, meal_items.quantity, meal_items.unit_calories, meals.ate_at").
		Joins("JOIN meals ON meals.id = meal_items.meal_id").
		Where("meals.user_id = ? AND meals.deleted_at IS NULL AND meal_items.deleted_at IS NULL", userID).
		Order("meals.ate_at DESC, meal_items.position ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]RecentMealItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecentMealItem{
			ID:        r.ID,
			MealID:    r.MealID,
			FoodLabel: r.FoodLabel,
			Calories:  nutrition.Round2(r.UnitCalories * r.Quantity),
			AteAt:     r.AteAt,
		})
	}
	return out, nil
}

type MealStats struct {
	Period         string                `json:"period"`
	From           time.Time             `json:"from"`
	To             time.Time             `json:"to"`
	CurrentIntake  models.NutrientVector `json:"currentIntake"`
	NutritionNeeds *nutrition.Goals      `json:"nutritionNeeds,omitempty"`
	Progress       *Progress             `json:"progress,omitempty"`
	MealCount      int                   `json:"mealCount"`
	Days           []nutrition.DayTotal  `json:"days"`
	Meals          []models.Meal         `json:"meals"`
}

// StatsPeriod resolves "today", "week" or "month" into a [from, to) range
// ending at the end of today (UTC).
func StatsPeriod(period string, now time.Time) (time.Time, time.Time, error) {
	start, end := TodayRange(now)
	switch period {
	case "", "today", "day":
		return start, end, nil
	case "week":
		return start.AddDate(0, 0, -6), end, nil
	case "month":
		return start.AddDate(0, 0, -29), end, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period %q", ErrInvalidQuery, period)
	}
}

// Stats totals the period's meals. NutritionNeeds is omitted when the profile
// is incomplete.
func (s *MealService) Stats(ctx context.Context, userID uint, period string) (*MealStats, error) {
	if period == "" {
		period = "today"
	}
	from, to, err := StatsPeriod(period, time.Now())
	if err != nil {
		return nil, err
	}
	meals, err := s.ListMeals(ctx, userID, MealFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	var total models.NutrientVector
	for _, m := range meals {
		total = total.Add(m.Total)
	}
	out := &MealStats{
		Period:        period,
		From:          from,
		To:            to,
		CurrentIntake: total.Round(1),
		MealCount:     len(meals),
		Days:          nutrition.DailyTotals(meals),
		Meals:         meals,
	}

	var u models.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if goals, err := s.policy.GoalsFor(&u); err == nil {
		out.NutritionNeeds = &goals
		// needs are per day; compare against the daily average over the period
		days := int(to.Sub(from).Hours() / 24)
		p := progressOf(total.Scale(1/float64(max(days, 1))), goals)
		out.Progress = &p
	}
	return out, nil
}

// Progress is the share of each daily goal consumed, capped at 1.
type Progress struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
}

func progressOf(consumed models.NutrientVector, g nutrition.Goals) Progress {
	pct := func(c, target float64) float64 {
		if target <= 0 {
			return 0
		}
		return nutrition.Round2(min(c/target, 1))
	}
	return Progress{
		Calories: pct(consumed.Calories, g.Calories),
		Protein:  pct(consumed.Protein, g.Protein),
		Fat:      pct(consumed.Fat, g.Fat),
		Carbs:    pct(consumed.Carbs, g.Carbs),
		Fiber:    pct(consumed.Fiber, g.Fiber),
	}
}
