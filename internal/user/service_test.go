package user

import (
	"context"
	"errors"
	"testing"

	"trainerbook/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestRegister(t *testing.T) {
	t.Run("new users are clients", func(t *testing.T) {
		repo := new(MockUserRepo)

		repo.On("EmailExists", mock.Anything, "alice@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, "Alice", "alice@example.com", mock.AnythingOfType("string"), auth.RoleClient).
			Return(&User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: auth.RoleClient}, nil)

		user, access, refresh, err := NewService(repo, testSecret).Register(context.Background(), RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, auth.RoleClient, user.Role)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepo)

		repo.On("EmailExists", mock.Anything, "alice@example.com").Return(true, nil)

		_, _, _, err := NewService(repo, testSecret).Register(context.Background(), RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepo)

		repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&User{
			ID:           1,
			Email:        "alice@example.com",
			PasswordHash: hash,
			Role:         auth.RoleClient,
		}, nil)

		user, access, _, err := NewService(repo, testSecret).Login(context.Background(), LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)

		claims, err := auth.ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepo)

		repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&User{
			ID:           1,
			Email:        "alice@example.com",
			PasswordHash: hash,
		}, nil)

		_, _, _, err := NewService(repo, testSecret).Login(context.Background(), LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reads as bad credentials", func(t *testing.T) {
		repo := new(MockUserRepo)

		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, ErrUserNotFound)

		_, _, _, err := NewService(repo, testSecret).Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepo)

		refresh, err := auth.GenerateRefreshToken(1, "alice@example.com", auth.RoleClient, testSecret)
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, 1).Return(&User{ID: 1, Email: "alice@example.com"}, nil)

		access, user, err := NewService(repo, testSecret).RefreshToken(context.Background(), refresh)

		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)

		claims, err := auth.ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("access token rejected", func(t *testing.T) {
		repo := new(MockUserRepo)

		access, err := auth.GenerateAccessToken(1, "alice@example.com", auth.RoleClient, testSecret)
		require.NoError(t, err)

		_, _, err = NewService(repo, testSecret).RefreshToken(context.Background(), access)

		assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
	})

	t.Run("deleted user", func(t *testing.T) {
		repo := new(MockUserRepo)

		refresh, err := auth.GenerateRefreshToken(1, "alice@example.com", auth.RoleClient, testSecret)
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, 1).Return(nil, errors.New("no rows"))

		_, _, err = NewService(repo, testSecret).RefreshToken(context.Background(), refresh)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
