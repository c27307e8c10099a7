package models

import "time"

// UserDevice is a push endpoint registered for alert delivery.
type UserDevice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;uniqueIndex:idx_user_token" json:"userId"`
	Platform    string    `gorm:"size:16" json:"platform"` // "android" | "ios"
	TokenHash   string    `gorm:"size:64;uniqueIndex:idx_user_token" json:"-"`
	EndpointARN string    `gorm:"size:256" json:"endpointArn"`
	Enabled     bool      `gorm:"default:true" json:"enabled"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
