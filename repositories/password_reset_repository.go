package repositories

import (
	"time"

	"genapi/models"

	"gorm.io/gorm"
)

// PasswordResetRepository defines password reset token persistence.
type PasswordResetRepository interface {
	Create(reset *models.PasswordReset) error
	// FindValid returns the reset row for token if it is unused and unexpired.
	FindValid(token string, now time.Time) (*models.PasswordReset, error)
	Delete(token string) error
	DeleteExpired(now time.Time) (int64, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *models.PasswordReset) error {
	return r.db.Create(reset).Error
}

func (r *passwordResetRepository) FindValid(token string, now time.Time) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.db.Where("token = ? AND used = ? AND expires_at > ?", token, false, now).First(&reset).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.PasswordReset{}).Error
}

func (r *passwordResetRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.PasswordReset{})
	return result.RowsAffected, result.Error
}
