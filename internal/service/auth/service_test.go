package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authn "github.com/osvalr/cantina/internal/auth"
	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
	"github.com/osvalr/cantina/internal/repository/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(repository.Capabilities{Transactions: true})
	tokens := authn.NewTokenManager("test-secret", time.Hour)
	return NewService(store, tokens, nil), store
}

func TestRegisterDefaultsAndHashing(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Ana",
		Email:    "Ana@Example.COM",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, models.RoleCashier, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
	assert.True(t, authn.CheckPassword(user.PasswordHash, "hunter22"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, models.RegisterRequest{Name: "Other", Email: "ANA@example.com", Password: "hunter22"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "short"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22", Role: "accountant"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22", Role: models.RoleManager})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.PasswordHash)
	assert.NotNil(t, resp.User.LastAccessAt)

	id, err := authn.NewTokenManager("test-secret", time.Hour).Resolve(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), id.UserID)
	assert.Equal(t, models.RoleManager, id.Role)

	stored, err := store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastAccessAt)
}

func TestLoginRejections(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	// Unknown email and wrong password produce the same answer.
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
	assert.Equal(t, "invalid credentials", apperr.Message(err))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
	assert.Equal(t, "invalid credentials", apperr.Message(err))

	user.Active = false
	// No repository update method for the full user; re-insert the flipped copy.
	require.NoError(t, store.Users().Insert(ctx, user))
	_, err = svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	found, err := svc.CurrentUser(ctx, models.Identity{UserID: user.ID.Hex(), Email: user.Email, Role: user.Role})
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.CurrentUser(ctx, models.Identity{UserID: "ffffffffffffffffffffffff"})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = svc.CurrentUser(ctx, models.Identity{UserID: "garbage"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}
