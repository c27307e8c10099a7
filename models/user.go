package models

import (
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// User is the registered account together with its health profile.
type User struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Age           int           `gorm:"not null" json:"age"`
	Gender        Gender        `gorm:"size:16;not null" json:"gender"`
	Height        float64       `gorm:"not null" json:"height"` // cm
	Weight        float64       `gorm:"not null" json:"weight"` // kg
	ActivityLevel ActivityLevel `gorm:"size:16;not null" json:"activityLevel"`
	TargetWeight  *float64      `json:"targetWeight"` // kg, nil when the user has no target

	Allergies           []string `gorm:"serializer:json" json:"allergies"`
	DietaryRestrictions []string `gorm:"serializer:json" json:"dietaryRestrictions"`
	HealthConditions    []string `gorm:"serializer:json" json:"healthConditions"`
	Medications         []string `gorm:"serializer:json" json:"medications"`

	ProfilePicture string `json:"profilePicture"`
}
