package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var ErrInvalidMeal = errors.New("invalid meal")

// ParseMealType lowercases and checks s against the four meal types.
func ParseMealType(s string) (MealType, error) {
	switch mt := MealType(strings.ToLower(strings.TrimSpace(s))); mt {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return mt, nil
	default:
		return "", fmt.Errorf("%w: unknown meal type %q", ErrInvalidMeal, s)
	}
}

// Meal is one logged eating occasion (breakfast/lunch/…).
type Meal struct {
	gorm.Model
	UserID uint       `gorm:"index;not null" json:"userId"`
	Type   MealType   `gorm:"size:16;not null" json:"mealType"`
	AteAt  time.Time  `gorm:"index;not null" json:"date"`
	Notes  string     `json:"notes"`
	Items  []MealItem `gorm:"constraint:OnDelete:CASCADE" json:"foods"`

	// Total is derived from Items; never set it directly.
	Total NutrientVector `gorm:"embedded;embeddedPrefix:total_" json:"totalNutrients"`
}

// MealItem is one food entry: per-unit nutrients times Quantity.
type MealItem struct {
	gorm.Model
	MealID    uint    `gorm:"index" json:"-"`
	Position  int     `json:"-"` // keeps entries in logged order
	FoodID    string  `gorm:"type:varchar(255);not null" json:"foodId"`
	FoodLabel string  `gorm:"not null" json:"name"`
	Quantity  float64 `gorm:"not null" json:"quantity"`
	Measure   string  `json:"measure"` // e.g. "100g unit"

	Nutrients NutrientVector `gorm:"embedded;embeddedPrefix:unit_" json:"nutrients"`
}

// Contribution is this entry's share of the meal total.
func (it MealItem) Contribution() NutrientVector {
	return it.Nutrients.Scale(it.Quantity)
}

func (it MealItem) Validate() error {
	if strings.TrimSpace(it.FoodID) == "" {
		return fmt.Errorf("%w: food id is required", ErrInvalidMeal)
	}
	if strings.TrimSpace(it.FoodLabel) == "" {
		return fmt.Errorf("%w: food name is required", ErrInvalidMeal)
	}
	if !(it.Quantity > 0) {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidMeal)
	}
	return it.Nutrients.Validate()
}

// ComputeTotal returns the componentwise sum of item contributions.
func ComputeTotal(items []MealItem) NutrientVector {
	var t NutrientVector
	for _, it := range items {
		t = t.Add(it.Contribution())
	}
	return t.Round(1)
}

// Recompute refreshes Total from Items.
func (m *Meal) Recompute() {
	m.Total = ComputeTotal(m.Items)
}

func (m *Meal) Validate() error {
	if _, err := ParseMealType(string(m.Type)); err != nil {
		return err
	}
	if len(m.Items) == 0 {
		return fmt.Errorf("%w: at least one food item is required", ErrInvalidMeal)
	}
	for i, it := range m.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// BeforeSave keeps the stored total in step with the items being written.
func (m *Meal) BeforeSave(tx *gorm.DB) error {
	for i := range m.Items {
		m.Items[i].Position = i
	}
	m.Recompute()
	return nil
}

// AfterFind recomputes when items were preloaded so reads never see a stale total.
func (m *Meal) AfterFind(tx *gorm.DB) error {
	if len(m.Items) > 0 {
		m.Recompute()
	}
	return nil
}
