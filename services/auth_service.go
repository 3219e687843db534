package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"genapi/auth"
	"genapi/models"
	"genapi/repositories"
)

const resetTokenTTL = time.Hour

var (
	// ErrInvalidCredentials is returned for unknown identifiers and wrong
	// passwords alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRegistrationFailed collapses all registration failures (validation,
	// duplicates, storage) into one signal.
	ErrRegistrationFailed = errors.New("registration failed")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

type RegisterInput struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	MobilePhone *string `json:"mobile_phone"`
}

type ProfileUpdateInput struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	MobilePhone *string `json:"mobile_phone"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
}

// AuthService handles credential verification, token issuance, session
// lifecycle and password reset tokens.
type AuthService interface {
	Authenticate(identifier, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	CreateSession(userID uint, token string) error
	DestroySession(token string) error
	DestroyAllUserSessions(userID uint) error
	IsSessionValid(token string) bool
	Register(input *RegisterInput) (uint, error)
	GeneratePasswordResetToken(email string) (string, error)
	VerifyPasswordResetToken(token string) (string, error)
	ResetPasswordWithToken(token, newPassword string) error
	ChangePassword(userID uint, currentPassword, newPassword, keepToken string) error
	GetUserByID(userID uint) (*models.User, error)
	UpdateProfile(userID uint, input *ProfileUpdateInput) (*models.User, error)
	CleanExpiredSessions() (int64, error)
	CleanExpiredResetTokens() (int64, error)
}

type authService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	resets   repositories.PasswordResetRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

var _ AuthService = (*authService)(nil)

func NewAuthService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	resets repositories.PasswordResetRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		resets:   resets,
		tokens:   tokens,
		logger:   logger,
	}
}

// Authenticate looks up a user by username or email and verifies the password.
func (s *authService) Authenticate(identifier, password string) (*models.User, error) {
	user, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(user); err != nil {
		s.logger.Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

func (s *authService) GenerateToken(user *models.User) (string, error) {
	return s.tokens.Generate(user)
}

// CreateSession inserts a session row expiring together with the token.
func (s *authService) CreateSession(userID uint, token string) error {
	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.TTL()),
	}
	if err := s.sessions.Create(session); err != nil {
		s.logger.Error("failed to create session", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) DestroySession(token string) error {
	return s.sessions.DeleteByToken(token)
}

func (s *authService) DestroyAllUserSessions(userID uint) error {
	return s.sessions.DeleteByUser(userID)
}

func (s *authService) IsSessionValid(token string) bool {
	_, err := s.sessions.FindValidByToken(token, time.Now())
	return err == nil
}

// Register validates input, rejects duplicate usernames and emails (exact
// match as stored) and creates the user with a hashed password. All failures
// surface as ErrRegistrationFailed.
func (s *authService) Register(input *RegisterInput) (uint, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return 0, ErrRegistrationFailed
	}

	if _, err := s.users.FindByUsername(input.Username); err == nil {
		return 0, ErrRegistrationFailed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrRegistrationFailed
	}
	if _, err := s.users.FindByEmail(input.Email); err == nil {
		return 0, ErrRegistrationFailed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrRegistrationFailed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, ErrRegistrationFailed
	}

	user := &models.User{
		Username:        input.Username,
		Email:           input.Email,
		Password:        string(hashed),
		MobilePhone:     input.MobilePhone,
		PermissionLevel: 0,
		IsActive:        true,
	}
	if err := s.users.Create(user); err != nil {
		s.logger.Error("failed to create user", zap.String("username", input.Username), zap.Error(err))
		return 0, ErrRegistrationFailed
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user.ID, nil
}

// GeneratePasswordResetToken creates a single-use token for the account behind
// email. An unknown email yields an empty token and no error so the caller can
// answer identically in both cases.
func (s *authService) GeneratePasswordResetToken(email string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	reset := &models.PasswordReset{
		Token:     token,
		UserID:    user.ID,
		Email:     email,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resets.Create(reset); err != nil {
		return "", err
	}

	s.logger.Info("password reset requested", zap.Uint("user_id", user.ID))
	return token, nil
}

// VerifyPasswordResetToken returns the email bound to a live reset token.
func (s *authService) VerifyPasswordResetToken(token string) (string, error) {
	reset, err := s.resets.FindValid(token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrResetTokenInvalid
		}
		return "", err
	}
	return reset.Email, nil
}

// ResetPasswordWithToken updates the password behind a live reset token and
// consumes the token.
func (s *authService) ResetPasswordWithToken(token, newPassword string) error {
	reset, err := s.resets.FindValid(token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(reset.UserID, string(hashed)); err != nil {
		return err
	}

	if err := s.resets.Delete(token); err != nil {
		s.logger.Warn("failed to delete used reset token", zap.Error(err))
	}
	// A password reset invalidates every open session for the account.
	if err := s.sessions.DeleteByUser(reset.UserID); err != nil {
		s.logger.Warn("failed to revoke sessions after reset", zap.Uint("user_id", reset.UserID), zap.Error(err))
	}

	s.logger.Info("password reset completed", zap.Uint("user_id", reset.UserID))
	return nil
}

// ChangePassword verifies the current password before setting the new one.
// Sessions other than keepToken are revoked.
func (s *authService) ChangePassword(userID uint, currentPassword, newPassword, keepToken string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(userID, string(hashed)); err != nil {
		return err
	}

	if err := s.sessions.DeleteByUserExceptToken(userID, keepToken); err != nil {
		s.logger.Warn("failed to revoke other sessions", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *authService) GetUserByID(userID uint) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input *ProfileUpdateInput) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if _, err := s.users.FindByUsername(*input.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *input.Username
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.users.FindByEmail(*input.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.MobilePhone != nil {
		user.MobilePhone = input.MobilePhone
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) CleanExpiredSessions() (int64, error) {
	return s.sessions.DeleteExpired(time.Now())
}

func (s *authService) CleanExpiredResetTokens() (int64, error) {
	return s.resets.DeleteExpired(time.Now())
}
