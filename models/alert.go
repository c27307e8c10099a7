package models

import "time"

type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
)

// Alert is an in-app notice, e.g. an out-of-range health reading.
type Alert struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index" json:"userId"`
	Level     AlertLevel `gorm:"size:20" json:"level"`
	Source    string     `gorm:"size:32" json:"source"` // e.g. "health_metric"
	SourceID  uint       `json:"sourceId,omitempty"`
	Message   string     `gorm:"type:text" json:"message"`
	Read      bool       `gorm:"column:is_read;default:false" json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}
