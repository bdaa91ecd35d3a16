package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterDefaultsToStudent(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "lia",
		Email:    "Lia@Example.com",
		Password: "Secret123!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "lia@example.com", resp.User.Email)
	assert.Equal(t, "STUDENT", resp.User.Profile.RoleType)
}

func TestRegisterHashesWithConfiguredCost(t *testing.T) {
	f := newFixture(t)
	f.register(t, "lia", models.RoleStudent)

	u, err := f.store.Repositories().Users.GetByUsername(context.Background(), "lia")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(u.Password))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.NotEqual(t, "Secret123!", u.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "lia", models.RoleStudent)

	_, err := f.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "lia",
		Email:    "other@example.com",
		Password: "Secret123!",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "rafa", models.RoleMentor)

	t.Run("by username", func(t *testing.T) {
		resp, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "rafa", Password: "Secret123!"})
		require.NoError(t, err)
		assert.Equal(t, id, resp.User.ID)
		require.NotNil(t, resp.User.LastLoginAt)
		assert.True(t, resp.User.LastLoginAt.Equal(f.now))
	})

	t.Run("by email", func(t *testing.T) {
		resp, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "RAFA@example.com", Password: "Secret123!"})
		require.NoError(t, err)
		assert.Equal(t, "MENTOR", resp.User.Profile.RoleType)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "rafa", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "Secret123!"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		users := f.store.Repositories().Users
		u, err := users.GetByID(ctx, id)
		require.NoError(t, err)
		u.IsActive = false
		require.NoError(t, users.Update(ctx, u))

		_, err = f.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "rafa", Password: "Secret123!"})
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}
