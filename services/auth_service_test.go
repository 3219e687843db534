package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"genapi/auth"
	"genapi/config"
	"genapi/models"
	"genapi/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	err = db.AutoMigrate(
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
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func newAuthService(t *testing.T) (AuthService, *gorm.DB) {
	db := setupTestDB(t)
	tokens := auth.NewTokenManager(config.JWTConfig{
		Secret:   "test-secret-key",
		TTL:      time.Hour,
		Issuer:   "test-issuer",
		Audience: "test-audience",
	})
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewSessionRepository(db),
		repositories.NewPasswordResetRepository(db),
		tokens,
		zap.NewNop(),
	)
	return svc, db
}

func seedAuthUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	user := &models.User{Username: username, Email: email, Password: string(hashed), IsActive: true}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthenticate(t *testing.T) {
	t.Run("By username", func(t *testing.T) {
		svc, db := newAuthService(t)
		seedAuthUser(t, db, "testuser", "test@example.com", "password")

		user, err := svc.Authenticate("testuser", "password")
		assert.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("By email", func(t *testing.T) {
		svc, db := newAuthService(t)
		seedAuthUser(t, db, "testuser", "test@example.com", "password")

		user, err := svc.Authenticate("test@example.com", "password")
		assert.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		svc, db := newAuthService(t)
		seedAuthUser(t, db, "testuser", "test@example.com", "password")

		_, err := svc.Authenticate("testuser", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown identifier", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Authenticate("nobody", "password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Inactive account", func(t *testing.T) {
		svc, db := newAuthService(t)
		user := seedAuthUser(t, db, "testuser", "test@example.com", "password")
		db.Model(user).Update("is_active", false)

		_, err := svc.Authenticate("testuser", "password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, db := newAuthService(t)

		id, err := svc.Register(&RegisterInput{Username: "newuser", Email: "new@example.com", Password: "password"})
		assert.NoError(t, err)
		assert.NotZero(t, id)

		var created models.User
		assert.NoError(t, db.Where("username = ?", "newuser").First(&created).Error)
		assert.NotEqual(t, "password", created.Password)
		assert.True(t, created.IsActive)
		assert.Equal(t, 0, created.PermissionLevel)
	})

	t.Run("Missing fields", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(&RegisterInput{Username: "newuser"})
		assert.ErrorIs(t, err, ErrRegistrationFailed)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		svc, db := newAuthService(t)
		seedAuthUser(t, db, "existinguser", "existing@example.com", "password")

		_, err := svc.Register(&RegisterInput{Username: "existinguser", Email: "other@example.com", Password: "password"})
		assert.ErrorIs(t, err, ErrRegistrationFailed)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		svc, db := newAuthService(t)
		seedAuthUser(t, db, "existinguser", "existing@example.com", "password")

		_, err := svc.Register(&RegisterInput{Username: "otheruser", Email: "existing@example.com", Password: "password"})
		assert.ErrorIs(t, err, ErrRegistrationFailed)
	})
}

func TestSessionLifecycle(t *testing.T) {
	svc, db := newAuthService(t)
	user := seedAuthUser(t, db, "testuser", "test@example.com", "password")

	token, err := svc.GenerateToken(user)
	assert.NoError(t, err)
	assert.NoError(t, svc.CreateSession(user.ID, token))
	assert.True(t, svc.IsSessionValid(token))

	assert.NoError(t, svc.DestroySession(token))
	assert.False(t, svc.IsSessionValid(token))

	// Destroying again is a no-op.
	assert.NoError(t, svc.DestroySession(token))

	second, err := svc.GenerateToken(user)
	assert.NoError(t, err)
	assert.NoError(t, svc.CreateSession(user.ID, second))
	assert.NoError(t, svc.DestroyAllUserSessions(user.ID))
	assert.False(t, svc.IsSessionValid(second))
}

func TestPasswordResetFlow(t *testing.T) {
	t.Run("Unknown email yields no token and no error", func(t *testing.T) {
		svc, _ := newAuthService(t)

		token, err := svc.GeneratePasswordResetToken("nobody@example.com")
		assert.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("Token is bound to the email and single use", func(t *testing.T) {
		svc, db := newAuthService(t)
		user := seedAuthUser(t, db, "testuser", "test@example.com", "password")

		sessionToken, err := svc.GenerateToken(user)
		assert.NoError(t, err)
		assert.NoError(t, svc.CreateSession(user.ID, sessionToken))

		token, err := svc.GeneratePasswordResetToken("test@example.com")
		assert.NoError(t, err)
		assert.Len(t, token, 64)

		email, err := svc.VerifyPasswordResetToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "test@example.com", email)

		assert.NoError(t, svc.ResetPasswordWithToken(token, "newpassword"))

		// The new password works, the old one does not.
		_, err = svc.Authenticate("testuser", "password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Authenticate("testuser", "newpassword")
		assert.NoError(t, err)

		// Every open session died with the reset.
		assert.False(t, svc.IsSessionValid(sessionToken))

		// The token is consumed.
		assert.ErrorIs(t, svc.ResetPasswordWithToken(token, "anotherpassword"), ErrResetTokenInvalid)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		svc, db := newAuthService(t)
		user := seedAuthUser(t, db, "testuser", "test@example.com", "password")

		reset := &models.PasswordReset{
			Token:     "expiredtoken",
			UserID:    user.ID,
			Email:     user.Email,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		assert.NoError(t, db.Create(reset).Error)

		_, err := svc.VerifyPasswordResetToken("expiredtoken")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})
}

func TestChangePassword(t *testing.T) {
	svc, db := newAuthService(t)
	user := seedAuthUser(t, db, "testuser", "test@example.com", "password")

	keep, err := svc.GenerateToken(user)
	assert.NoError(t, err)
	assert.NoError(t, svc.CreateSession(user.ID, keep))

	other := keep + "other"
	assert.NoError(t, db.Create(&models.Session{UserID: user.ID, Token: other, ExpiresAt: time.Now().Add(time.Hour)}).Error)

	t.Run("Wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(user.ID, "wrongpassword", "newpassword", keep)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Success keeps only the current session", func(t *testing.T) {
		assert.NoError(t, svc.ChangePassword(user.ID, "password", "newpassword", keep))

		_, err := svc.Authenticate("testuser", "newpassword")
		assert.NoError(t, err)

		assert.True(t, svc.IsSessionValid(keep))
		assert.False(t, svc.IsSessionValid(other))
	})
}

func TestCleanupOperations(t *testing.T) {
	svc, db := newAuthService(t)
	user := seedAuthUser(t, db, "testuser", "test@example.com", "password")

	db.Create(&models.Session{UserID: user.ID, Token: "live", ExpiresAt: time.Now().Add(time.Hour)})
	db.Create(&models.Session{UserID: user.ID, Token: "dead", ExpiresAt: time.Now().Add(-time.Hour)})

	removed, err := svc.CleanExpiredSessions()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.True(t, svc.IsSessionValid("live"))

	db.Create(&models.PasswordReset{Token: "live-reset", UserID: user.ID, Email: user.Email, ExpiresAt: time.Now().Add(time.Hour)})
	db.Create(&models.PasswordReset{Token: "dead-reset", UserID: user.ID, Email: user.Email, ExpiresAt: time.Now().Add(-time.Hour)})

	removed, err = svc.CleanExpiredResetTokens()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
