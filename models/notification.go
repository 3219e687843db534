package models

import "time"

const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type      string         `gorm:"size:50;index;not null" json:"type"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Message   string         `gorm:"not null" json:"message"`
	Data      map[string]any `gorm:"serializer:json" json:"data"`
	ReadAt    *time.Time     `gorm:"index" json:"read_at"`
	ActionURL *string        `gorm:"size:500" json:"action_url"`
	Priority  string         `gorm:"size:10;default:normal;index" json:"priority"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
