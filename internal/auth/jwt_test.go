package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

func testUser() models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Ana",
		Email: "ana@example.com",
		Role:  models.RoleManager,
	}
}

func TestTokenRoundtrip(t *testing.T) {
	mgr := NewTokenManager("secret", 0)
	user := testUser()

	token, err := mgr.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := mgr.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), id.UserID)
	assert.Equal(t, user.Email, id.Email)
	assert.Equal(t, models.RoleManager, id.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	mgr := NewTokenManager("secret", time.Nanosecond)
	token, err := mgr.Issue(testUser())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = mgr.Resolve(token)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewTokenManager("one", 0).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("two", 0).Resolve(token)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
}

func TestResolveHeader(t *testing.T) {
	mgr := NewTokenManager("secret", 0)
	user := testUser()
	token, err := mgr.Issue(user)
	require.NoError(t, err)

	id, err := mgr.ResolveHeader("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, id.Email)

	for _, header := range []string{"", token, "Basic " + token, "Bearer"} {
		_, err := mgr.ResolveHeader(header)
		assert.True(t, apperr.IsKind(err, apperr.Unauthenticated), "header %q", header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
