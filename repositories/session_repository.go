package repositories

import (
	"time"

	"genapi/models"

	"gorm.io/gorm"
)

// SessionRepository defines Session-related database operations. Deletes are
// idempotent: removing zero rows is not an error.
type SessionRepository interface {
	Create(session *models.Session) error
	// FindByUserAndToken matches the (user id, raw token) pair that proves a
	// token has not been revoked.
	FindByUserAndToken(userID uint, token string) (*models.Session, error)
	FindValidByToken(token string, now time.Time) (*models.Session, error)
	DeleteByToken(token string) error
	DeleteByUser(userID uint) error
	DeleteByUserExceptToken(userID uint, token string) error
	DeleteExpired(now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindByUserAndToken(userID uint, token string) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("user_id = ? AND token = ?", userID, token).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindValidByToken(token string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("token = ? AND expires_at > ?", token, now).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

func (r *sessionRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

func (r *sessionRepository) DeleteByUserExceptToken(userID uint, token string) error {
	return r.db.Where("user_id = ? AND token <> ?", userID, token).Delete(&models.Session{}).Error
}

func (r *sessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
