package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"genapi/config"
	"genapi/models"
)

// Open connects to the configured database and runs migrations.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.UserType{},
		&models.User{},
		&models.Session{},
		&models.PasswordReset{},
		&models.Category{},
		&models.Item{},
		&models.Tag{},
		&models.ItemTag{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// Seed inserts default user types, sample root categories and an initial admin
// account when they are missing. Safe to call on every startup.
func Seed(db *gorm.DB) error {
	userTypes := []models.UserType{
		{Name: "admin", Description: "Administrator with full access", Permissions: []string{"*"}},
		{Name: "editor", Description: "Can manage content", Permissions: []string{"items:write", "categories:write", "tags:write"}},
		{Name: "member", Description: "Standard user", Permissions: []string{"items:read"}},
	}
	for _, ut := range userTypes {
		var existing models.UserType
		if err := db.Where("name = ?", ut.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&ut).Error; err != nil {
				return fmt.Errorf("seeding user type %s: %w", ut.Name, err)
			}
		} else if err != nil {
			return err
		}
	}

	categories := []models.Category{
		{Name: "Technology", Slug: "technology", SortOrder: 1, IsActive: true},
		{Name: "Business", Slug: "business", SortOrder: 2, IsActive: true},
		{Name: "Lifestyle", Slug: "lifestyle", SortOrder: 3, IsActive: true},
	}
	for _, c := range categories {
		var existing models.Category
		if err := db.Where("slug = ?", c.Slug).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&c).Error; err != nil {
				return fmt.Errorf("seeding category %s: %w", c.Slug, err)
			}
		} else if err != nil {
			return err
		}
	}

	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err == gorm.ErrRecordNotFound {
		hashed, err := bcrypt.GenerateFromPassword([]byte("adminpassword"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		var adminType models.UserType
		admin = models.User{
			Username:        "admin",
			Email:           "admin@example.com",
			Password:        string(hashed),
			PermissionLevel: 9,
			IsActive:        true,
		}
		if err := db.Where("name = ?", "admin").First(&adminType).Error; err == nil {
			admin.UserTypeID = &adminType.ID
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
	} else if err != nil {
		return err
	}

	return nil
}
