package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/utils"
)

func setupUserTest(t *testing.T) services.IUserService {
	database := utils.SetupTestDB(t, "rentghar_test_users", "users")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return services.NewUserService(database)
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "admin@example.com", "supersecret", "Admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.NotEqual(t, "supersecret", user.PasswordHash, "password must not be stored in clear")

	authed, err := svc.Authenticate(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin@example.com", "supersecret", "Admin")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "admin@example.com", "othersecret", "Someone")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin@example.com", "supersecret", "Admin")
	require.NoError(t, err)

	_, wrongPass := svc.Authenticate(ctx, "admin@example.com", "wrong")
	_, noAccount := svc.Authenticate(ctx, "ghost@example.com", "supersecret")

	// Both failures look identical to the caller.
	assert.ErrorIs(t, wrongPass, services.ErrNotFound)
	assert.ErrorIs(t, noAccount, services.ErrNotFound)
}
