package service

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/Rrens/chat-store/internal/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(userRepo *MockUserRepository) *AuthService {
	jwtManager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(userRepo, jwtManager)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo)

		userRepo.On("EmailExists", ctx, "new@example.com").Return(false, nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, domain.UserCreate{Email: "new@example.com", Password: "password123"})
		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.NotEqual(t, "password123", user.PasswordHash)

		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo)

		userRepo.On("EmailExists", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.Register(ctx, domain.UserCreate{Email: "taken@example.com", Password: "password123"})
		assert.ErrorContains(t, err, "already registered")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &domain.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: string(hash)}

	t.Run("success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

		tokens, err := svc.Login(ctx, domain.UserLogin{Email: "user@example.com", Password: "password123"})
		assert.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "user@example.com", Password: "wrong"})
		assert.ErrorContains(t, err, "invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "missing@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "missing@example.com", Password: "password123"})
		assert.ErrorContains(t, err, "invalid credentials")
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "user@example.com"}
	userRepo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user.PasswordHash = string(hash)

	tokens, err := svc.Login(ctx, domain.UserLogin{Email: "user@example.com", Password: "password123"})
	assert.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorContains(t, err, "invalid refresh token")
}
