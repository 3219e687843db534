package repositories

import (
	"genapi/models"

	"gorm.io/gorm"
)

type UserTypeRepository interface {
	FindByID(id uint) (*models.UserType, error)
	FindAll() ([]models.UserType, error)
}

type userTypeRepository struct {
	db *gorm.DB
}

func NewUserTypeRepository(db *gorm.DB) UserTypeRepository {
	return &userTypeRepository{db: db}
}

func (r *userTypeRepository) FindByID(id uint) (*models.UserType, error) {
	var userType models.UserType
	if err := r.db.First(&userType, id).Error; err != nil {
		return nil, err
	}
	return &userType, nil
}

func (r *userTypeRepository) FindAll() ([]models.UserType, error) {
	var userTypes []models.UserType
	if err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&userTypes).Error; err != nil {
		return nil, err
	}
	return userTypes, nil
}
