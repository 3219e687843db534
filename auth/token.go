package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"genapi/config"
	"genapi/models"
)

var (
	// ErrTokenExpired is returned for a correctly signed token past its expiry.
	// The router deletes the matching session row when it sees this.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims are the custom claims embedded in issued tokens.
type Claims struct {
	UserID          uint   `json:"user_id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	PermissionLevel int    `json:"permission_level"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed tokens. The signing key and token
// lifetime come from configuration instead of package state.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// TTL returns the configured token lifetime; sessions expire together with
// their token.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate creates a signed token for the user.
func (m *TokenManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:          user.ID,
		Username:        user.Username,
		Email:           user.Email,
		PermissionLevel: user.PermissionLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of a token and returns its claims.
// Expiry is reported as ErrTokenExpired so callers can clean up the session.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
