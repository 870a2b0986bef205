package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ticketing/internal/auth"
	apperrors "ticketing/internal/errors"
	"ticketing/internal/mailer"
	"ticketing/internal/model"
	"ticketing/internal/repository"
)

const bcryptCost = 10

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

// AuthService is the session manager.
type AuthService interface {
	Signup(ctx context.Context, name, email, password, role string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyAccessToken(token string) (*auth.Claims, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
}

type authService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	mailer      mailer.Mailer
	frontendURL string
	newToken    func() (string, error)
}

// NewAuthService creates a new authentication service. Reset links are
// built from frontendURL.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, m mailer.Mailer, frontendURL string) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		mailer:      m,
		frontendURL: frontendURL,
		newToken:    randomHexToken,
	}
}

// Signup creates a verified account. Unknown roles fall back to User.
func (s *authService) Signup(ctx context.Context, name, email, password, role string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.ParseRole(role),
		Status:       model.UserStatusActive,
		IsVerified:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks credentials and issues an access/refresh token pair. The
// refresh token is appended to the user's stored list.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountUnavailable
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Blocked() {
		return nil, apperrors.ErrAccountUnavailable
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	identity := auth.ClaimsFor(user)
	accessToken, err := s.jwtService.GenerateAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.userRepo.AddRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// VerifyAccessToken validates signature and expiry of an access token.
func (s *authService) VerifyAccessToken(token string) (*auth.Claims, error) {
	return s.jwtService.ValidateAccessToken(token)
}

// RefreshToken mints a new access token. The refresh token must verify and
// still be in its owner's stored list. It is not rotated.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	stored, err := s.userRepo.HasRefreshToken(ctx, user.ID, refreshToken)
	if err != nil {
		return "", fmt.Errorf("check refresh token: %w", err)
	}
	if !stored {
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(auth.ClaimsFor(user))
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout removes the refresh token from its owner's list. Apart from a
// missing token it always succeeds.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.DecodeUnverified(refreshToken)
	if err != nil {
		return nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}

	if err := s.userRepo.RemoveRefreshToken(ctx, userID, refreshToken); err != nil {
		log.Printf("logout: remove refresh token for %s: %v", userID, err)
	}
	return nil
}

// ForgotPassword stores a reset token on the user and mails a reset link.
// Unknown emails are not reported.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := s.newToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	user.ResetToken = &token
	if err := s.userRepo.Update(ctx, user, "reset_token"); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	return s.mailer.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(
			`<p>Hello %s,</p><p>You requested a password reset. Click below to set a new password:</p><p><a href="%s">%s</a></p>`,
			html.EscapeString(user.Name), resetLink, resetLink),
	})
}

// ResetPassword consumes a reset token and replaces the password hash.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.ErrInvalidResetToken
	}
	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return fmt.Errorf("find user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.ResetToken = nil
	if err := s.userRepo.Update(ctx, user, "password_hash", "reset_token"); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// VerifyEmail consumes an email verification token.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.ErrInvalidVerificationToken
	}
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidVerificationToken
		}
		return fmt.Errorf("find user: %w", err)
	}

	user.EmailVerificationToken = nil
	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user, "email_verification_token", "is_verified"); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}

func randomHexToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
