package models

import "time"

// Category is a node in a self-referential tree. Acyclicity is not enforced on
// write; tree construction bounds its recursion depth instead.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Slug        string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description *string        `json:"description"`
	ParentID    *uint          `gorm:"index" json:"parent_id"`
	Parent      *Category      `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	Metadata    map[string]any `gorm:"serializer:json" json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CategoryNode is a category with its children grouped under it, as returned
// by the tree endpoint.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}
