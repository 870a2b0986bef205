package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 24 * time.Hour
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// Claims is the identity carried by both access and refresh tokens.
type Claims struct {
	UserID string     `json:"_id"`
	Role   model.Role `json:"role"`
	Email  string     `json:"email"`
	jwt.RegisteredClaims
}

// ClaimsFor builds the identity claim of a user.
func ClaimsFor(user *model.User) Claims {
	return Claims{
		UserID: user.ID.String(),
		Role:   user.Role,
		Email:  user.Email,
	}
}

// JWTService signs and verifies access and refresh tokens. Refresh tokens
// use their own secret.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// NewJWTService creates a JWT service. An empty refreshSecret falls back to
// the access secret.
func NewJWTService(accessSecret, refreshSecret string) *JWTService {
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	return &JWTService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// GenerateAccessToken signs a 24 hour access token for the identity.
func (s *JWTService) GenerateAccessToken(identity Claims) (string, error) {
	return s.sign(identity, s.accessSecret, AccessTokenExpiry)
}

// GenerateRefreshToken signs a 7 day refresh token for the identity.
func (s *JWTService) GenerateRefreshToken(identity Claims) (string, error) {
	return s.sign(identity, s.refreshSecret, RefreshTokenExpiry)
}

func (s *JWTService) sign(identity Claims, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: identity.UserID,
		Role:   identity.Role,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken verifies an access token. It returns
// errors.ErrTokenMissing, errors.ErrTokenExpired or errors.ErrTokenInvalid
// on failure.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenMissing
	}
	claims, err := s.parse(tokenString, s.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ValidateRefreshToken verifies signature and expiry of a refresh token.
// Membership in the owner's stored list is checked by the caller.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, s.refreshSecret)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	return claims, nil
}

// DecodeUnverified reads the claims of a token without checking its
// signature or expiry.
func (s *JWTService) DecodeUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *JWTService) parse(tokenString string, secret []byte) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
