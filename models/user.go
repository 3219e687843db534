package models

import "time"

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Username        string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"size:255;not null" json:"-"` // Don't expose password hash
	MobilePhone     *string    `gorm:"size:20" json:"mobile_phone"`
	Avatar          *string    `gorm:"size:500" json:"avatar"`
	Bio             *string    `json:"bio"`
	PermissionLevel int        `gorm:"default:0" json:"permission_level"`
	UserTypeID      *uint      `gorm:"index" json:"user_type_id"`
	UserType        *UserType  `gorm:"foreignKey:UserTypeID;constraint:OnDelete:SET NULL" json:"user_type,omitempty"`
	IsActive        bool       `gorm:"default:true;index" json:"is_active"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
