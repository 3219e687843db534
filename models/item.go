package models

import "time"

const (
	ItemStatusDraft     = "draft"
	ItemStatusPublished = "published"
	ItemStatusArchived  = "archived"
)

type Item struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Slug          string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description   *string        `json:"description"`
	Content       *string        `json:"content"`
	Type          string         `gorm:"size:50;default:general;index" json:"type"`
	Status        string         `gorm:"size:20;default:draft;index" json:"status"`
	CategoryID    *uint          `gorm:"index" json:"category_id"`
	Category      *Category      `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	UserID        uint           `gorm:"index;not null" json:"user_id"`
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FeaturedImage *string        `gorm:"size:500" json:"featured_image"`
	Price         *float64       `json:"price"`
	Metadata      map[string]any `gorm:"serializer:json" json:"metadata"`
	ViewCount     int            `gorm:"default:0" json:"view_count"`
	LikeCount     int            `gorm:"default:0" json:"like_count"`
	ShareCount    int            `gorm:"default:0" json:"share_count"`
	IsFeatured    bool           `gorm:"default:false;index" json:"is_featured"`
	PublishedAt   *time.Time     `gorm:"index" json:"published_at"`
	Tags          []Tag          `gorm:"many2many:item_tags;" json:"tags,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
