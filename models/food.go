package models

import "gorm.io/gorm"

// A catalog entry from the active food provider, refreshed on every search hit.
type FoodItem struct {
	gorm.Model
	Provider   string `gorm:"type:varchar(32);uniqueIndex:idx_provider_external;not null" json:"provider"`
	ExternalID string `gorm:"type:varchar(255);uniqueIndex:idx_provider_external;not null" json:"foodId"`
	Label      string `gorm:"not null" json:"name"`
	Brand      string `json:"brand"`
	Category   string `json:"category"`

	// per reference quantity (100 g for USDA, per-serving for Edamam)
	Nutrients NutrientVector `gorm:"embedded;embeddedPrefix:ref_" json:"nutrients"`
}
