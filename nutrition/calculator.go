// Package nutrition holds the recommendation engine's pure stages: body
// calculations, goal setting, intake aggregation, gap classification, search
// keyword selection and ranking. Nothing here does I/O.
package nutrition

import (
	"errors"
	"fmt"
	"math"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"
)

var (
	ErrInvalidProfile       = errors.New("invalid profile")
	ErrInvalidActivityLevel = errors.New("invalid activity level")
	ErrInvalidGoal          = errors.New("invalid nutrient goal")
	ErrInvalidMealType      = errors.New("invalid meal type")
)

// Plausible body ranges; anything outside is treated as bad input.
const (
	MinHeightCm = 50.0
	MaxHeightCm = 250.0
	MinWeightKg = 10.0
	MaxWeightKg = 400.0
	MinAgeYears = 1
	MaxAgeYears = 120
)

// Mifflin-St Jeor sex offsets.
const (
	MaleOffset   = 5.0
	FemaleOffset = -161.0

	// OtherGenderOffset is applied for gender "other". It matches the female
	// offset, the lower of the two, so energy targets are not overestimated.
	OtherGenderOffset = FemaleOffset
)

// ActivityMultipliers maps each activity level to its TDEE multiplier.
var ActivityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// ActivityLevels lists the levels in increasing multiplier order.
var ActivityLevels = []models.ActivityLevel{
	models.ActivitySedentary,
	models.ActivityLight,
	models.ActivityModerate,
	models.ActivityActive,
	models.ActivityVeryActive,
}

func checkBody(heightCm, weightKg float64) error {
	if !(heightCm > 0) || !(weightKg > 0) {
		return fmt.Errorf("%w: height and weight must be positive", ErrInvalidProfile)
	}
	if heightCm < MinHeightCm || heightCm > MaxHeightCm || weightKg < MinWeightKg || weightKg > MaxWeightKg {
		return fmt.Errorf("%w: height/weight out of plausible range", ErrInvalidProfile)
	}
	return nil
}

// BMI expects height in centimeters and weight in kilograms.
func BMI(heightCm, weightKg float64) (float64, error) {
	if err := checkBody(heightCm, weightKg); err != nil {
		return 0, err
	}
	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// GenderOffset returns the Mifflin-St Jeor constant for g.
func GenderOffset(g models.Gender) (float64, error) {
	switch g {
	case models.GenderMale:
		return MaleOffset, nil
	case models.GenderFemale:
		return FemaleOffset, nil
	case models.GenderOther:
		return OtherGenderOffset, nil
	default:
		return 0, fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, g)
	}
}

// BMR is the Mifflin-St Jeor resting energy estimate in kcal/day.
func BMR(weightKg, heightCm float64, ageYears int, g models.Gender) (float64, error) {
	if err := checkBody(heightCm, weightKg); err != nil {
		return 0, err
	}
	if ageYears < MinAgeYears || ageYears > MaxAgeYears {
		return 0, fmt.Errorf("%w: age %d out of range", ErrInvalidProfile, ageYears)
	}
	offset, err := GenderOffset(g)
	if err != nil {
		return 0, err
	}
	return 10*weightKg + 6.25*heightCm - 5*float64(ageYears) + offset, nil
}

// DailyCalories is TDEE: bmr times the activity multiplier, rounded to kcal.
func DailyCalories(bmr float64, level models.ActivityLevel) (float64, error) {
	mult, ok := ActivityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidActivityLevel, level)
	}
	return math.Round(bmr * mult), nil
}

// ValidateProfile checks the body metrics and enums the engine depends on.
func ValidateProfile(u *models.User) error {
	if u == nil {
		return fmt.Errorf("%w: missing user", ErrInvalidProfile)
	}
	if err := checkBody(u.Height, u.Weight); err != nil {
		return err
	}
	if u.Age < MinAgeYears || u.Age > MaxAgeYears {
		return fmt.Errorf("%w: age %d out of range", ErrInvalidProfile, u.Age)
	}
	if _, err := GenderOffset(u.Gender); err != nil {
		return err
	}
	if _, ok := ActivityMultipliers[u.ActivityLevel]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidActivityLevel, u.ActivityLevel)
	}
	if u.TargetWeight != nil && (*u.TargetWeight < MinWeightKg || *u.TargetWeight > MaxWeightKg) {
		return fmt.Errorf("%w: target weight out of plausible range", ErrInvalidProfile)
	}
	return nil
}

// BodyStats bundles the profile-derived numbers shown alongside a user.
type BodyStats struct {
	BMI           float64 `json:"bmi"`
	Category      string  `json:"bmiCategory"`
	BMR           float64 `json:"bmr"`
	DailyCalories float64 `json:"dailyCalories"`
}

func StatsFor(u *models.User) (BodyStats, error) {
	if err := ValidateProfile(u); err != nil {
		return BodyStats{}, err
	}
	bmi, err := BMI(u.Height, u.Weight)
	if err != nil {
		return BodyStats{}, err
	}
	bmr, err := BMR(u.Weight, u.Height, u.Age, u.Gender)
	if err != nil {
		return BodyStats{}, err
	}
	tdee, err := DailyCalories(bmr, u.ActivityLevel)
	if err != nil {
		return BodyStats{}, err
	}
	return BodyStats{BMI: Round2(bmi), Category: BMICategory(bmi), BMR: bmr, DailyCalories: tdee}, nil
}

func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
