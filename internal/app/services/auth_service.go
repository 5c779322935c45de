package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/repositories"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/auth"
	"github.com/matheus/courseplatform/internal/pkg/email"
	"github.com/matheus/courseplatform/internal/pkg/validation"
)

const defaultUserState = "Brasília-DF"

// resetTokenTTL is how long a password reset link stays valid
const resetTokenTTL = time.Hour

// TokenRevoker tracks logged-out tokens until their natural expiry
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo       repositories.IUserRepository
	resetTokenRepo repositories.IPasswordResetTokenRepository
	jwtService     *auth.JWTService
	tokenRevoker   TokenRevoker
	emailService   email.EmailService
	logger         zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	resetTokenRepo repositories.IPasswordResetTokenRepository,
	jwtService *auth.JWTService,
	tokenRevoker TokenRevoker,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		resetTokenRepo: resetTokenRepo,
		jwtService:     jwtService,
		tokenRevoker:   tokenRevoker,
		emailService:   emailService,
		logger:         logger,
	}
}

// Register creates a new user account and returns a signed token
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !validation.IsValidEmail(req.Email) {
		return nil, apperrors.NewValidationError("Invalid email format")
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidPassword,
			"Password must be at least 8 characters and include a special character")
	}
	if !validation.IsValidCPF(req.CPF) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCPF, "CPF must contain exactly 11 digits")
	}

	role := models.RoleType(req.Role)
	if req.Role == "" {
		role = models.RoleStudent
	}
	if !role.IsValid() {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidRole, "Invalid role")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hashedPassword,
		Role:       role,
		CPF:        req.CPF,
		State:      defaultUserState,
		Profession: req.Profession,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User registered")

	return s.buildAuthResponse(user)
}

// Login authenticates a user and returns a signed token. The requested
// role must match the stored one, so a student cannot log into the
// admin area with valid credentials.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if string(user.Role) != req.Role {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

// Logout revokes the presented token for its remaining validity
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return apperrors.ErrTokenExpired
		}
		return apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token")
	}

	ttl := s.jwtService.RemainingValidity(claims)
	if err := s.tokenRevoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}

	s.logger.Info().Int64("userId", claims.UserID).Msg("User logged out")
	return nil
}

// ForgotPassword starts the password reset flow by emailing a reset link
func (s *AuthService) ForgotPassword(ctx context.Context, userEmail string) error {
	user, err := s.userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		return err
	}

	token, err := email.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}

	// Previous links stop working once a new one is requested
	if err := s.resetTokenRepo.DeleteTokensByUserID(ctx, user.ID); err != nil {
		return err
	}

	if err := s.resetTokenRepo.CreateToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
		return fmt.Errorf("error sending password reset email: %w", err)
	}

	s.logger.Info().Int64("userId", user.ID).Msg("Password reset email sent")
	return nil
}

// ResetPassword completes the reset flow with a token from the email
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !validation.IsValidPassword(newPassword) {
		return apperrors.NewCustomError(apperrors.ErrInvalidPassword,
			"Password must be at least 8 characters and include a special character")
	}

	userID, expiresAt, used, err := s.resetTokenRepo.GetTokenInfo(ctx, token)
	if err != nil {
		return err
	}
	if used {
		return apperrors.ErrResetTokenUsed
	}
	if time.Now().After(expiresAt) {
		return apperrors.ErrResetTokenInvalid
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	if err := s.resetTokenRepo.MarkTokenAsUsed(ctx, token); err != nil {
		return err
	}

	s.logger.Info().Int64("userId", userID).Msg("Password reset completed")
	return nil
}

// IsTokenRevoked reports whether a token has been logged out
func (s *AuthService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.tokenRevoker.IsRevoked(ctx, tokenID)
}

func (s *AuthService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: user,
	}, nil
}
