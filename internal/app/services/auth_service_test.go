package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/auth"
)

type authFixture struct {
	service    *AuthService
	userRepo   *fakeUserRepo
	resetRepo  *fakeResetTokenRepo
	revoker    *fakeRevoker
	email      *fakeEmailService
	jwtService *auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	resetRepo := newFakeResetTokenRepo()
	revoker := newFakeRevoker()
	emailSvc := &fakeEmailService{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})

	return &authFixture{
		service:    NewAuthService(userRepo, resetRepo, jwtService, revoker, emailSvc, zerolog.Nop()),
		userRepo:   userRepo,
		resetRepo:  resetRepo,
		revoker:    revoker,
		email:      emailSvc,
		jwtService: jwtService,
	}
}

func validRegisterRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "Senha123!",
		CPF:      "12345678901",
	}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.service.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, models.RoleStudent, resp.User.Role, "role defaults to student")
	assert.Equal(t, "Brasília-DF", resp.User.State, "state defaults for new accounts")
	assert.NotEqual(t, "Senha123!", resp.User.Password, "password is stored hashed")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	req := validRegisterRequest()
	req.CPF = "98765432100"
	_, err = f.service.Register(ctx, req)
	assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
}

func TestRegister_DuplicateCPF(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	req := validRegisterRequest()
	req.Email = "other@example.com"
	_, err = f.service.Register(ctx, req)
	assert.True(t, errors.Is(err, apperrors.ErrCPFAlreadyExists))
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newAuthFixture(t)

	req := validRegisterRequest()
	req.Password = "semdigitos"
	_, err := f.service.Register(context.Background(), req)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword))
}

func TestRegister_InvalidCPF(t *testing.T) {
	f := newAuthFixture(t)

	req := validRegisterRequest()
	req.CPF = "123"
	_, err := f.service.Register(context.Background(), req)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCPF))
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	resp, err := f.service.Login(ctx, &dto.LoginRequest{
		Email:    "maria@example.com",
		Password: "Senha123!",
		Role:     "STUDENT",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	_, err = f.service.Login(ctx, &dto.LoginRequest{
		Email:    "maria@example.com",
		Password: "Errada123!",
		Role:     "STUDENT",
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLogin_RoleMismatch(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	_, err = f.service.Login(ctx, &dto.LoginRequest{
		Email:    "maria@example.com",
		Password: "Senha123!",
		Role:     "ADMIN",
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials),
		"valid credentials with the wrong role are rejected")
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "Senha123!",
		Role:     "STUDENT",
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials),
		"unknown emails look the same as bad passwords")
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, resp.Token.AccessToken))

	claims, err := f.jwtService.ValidateToken(resp.Token.AccessToken)
	require.NoError(t, err)

	revoked, err := f.service.IsTokenRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.ForgotPassword(ctx, "maria@example.com"))
	require.Len(t, f.email.resetMails, 1)
	token := f.email.lastToken
	require.NotEmpty(t, token)

	require.NoError(t, f.service.ResetPassword(ctx, token, "NovaSenha1!"))

	_, err = f.service.Login(ctx, &dto.LoginRequest{
		Email:    "maria@example.com",
		Password: "NovaSenha1!",
		Role:     "STUDENT",
	})
	assert.NoError(t, err, "new password works after reset")

	_, err = f.service.Login(ctx, &dto.LoginRequest{
		Email:    "maria@example.com",
		Password: "Senha123!",
		Role:     "STUDENT",
	})
	assert.Error(t, err, "old password stops working after reset")
}

func TestResetPassword_TokenSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.ForgotPassword(ctx, "maria@example.com"))
	token := f.email.lastToken

	require.NoError(t, f.service.ResetPassword(ctx, token, "NovaSenha1!"))

	err = f.service.ResetPassword(ctx, token, "OutraSenha1!")
	assert.True(t, errors.Is(err, apperrors.ErrResetTokenUsed))
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.service.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, f.resetRepo.CreateToken(ctx, resp.User.ID, "expired-token", time.Now().Add(-time.Minute)))

	err = f.service.ResetPassword(ctx, "expired-token", "NovaSenha1!")
	assert.True(t, errors.Is(err, apperrors.ErrResetTokenInvalid))
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.ForgotPassword(context.Background(), "ghost@example.com")
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
	assert.Empty(t, f.email.resetMails)
}
