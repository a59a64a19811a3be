package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/policy"
)

func TestIssueAndParse(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	user := &models.User{ID: uuid.New(), Username: "editor"}

	token, err := manager.Issue(user)
	require.NoError(t, err)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, policy.Authenticated, actor.Kind)
	assert.Equal(t, user.ID, actor.UserID)
}

func TestAdminClaim(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	token, err := manager.Issue(&models.User{ID: uuid.New(), Username: "root", IsAdmin: true})
	require.NoError(t, err)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, policy.Admin, actor.Kind)
}

func TestParseRejectsBadTokens(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	user := &models.User{ID: uuid.New(), Username: "editor"}

	_, err := manager.Parse("")
	assert.ErrorIs(t, err, errs.ErrMissingToken)

	other, err := NewTokenManager("other-secret", time.Hour).Issue(user)
	require.NoError(t, err)
	_, err = manager.Parse(other)
	assert.Error(t, err, "signature from another key")

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(user)
	require.NoError(t, err)
	_, err = manager.Parse(old)
	assert.Error(t, err, "expired token")

	_, err = manager.Parse("not-a-token")
	assert.Error(t, err)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "correct horse"))

	err = CheckPassword(hash, "wrong")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidCredentials(err))
}
