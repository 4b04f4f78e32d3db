package auth

import (
	"testing"
	"time"

	"scavenger-hunt-api/internal/config"
	"scavenger-hunt-api/internal/models"

	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "hunt", Audience: "players", TTL: time.Hour})
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := testManager()
	token, err := m.GenerateToken(models.Account{ID: "u-1", TeamID: "team-1", Role: models.RoleTeam})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "team-1", claims.TeamID)

	sess := claims.Session()
	require.False(t, sess.IsAdmin())
	require.Equal(t, "team-1", sess.TeamID)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := testManager().ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongAudienceOrSecret(t *testing.T) {
	token, err := testManager().GenerateToken(models.Account{ID: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	other := NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "hunt", Audience: "someone-else"})
	_, err = other.ValidateToken(token)
	require.Error(t, err)

	other = NewManager(config.JWTConfig{Secret: "another-secret", Issuer: "hunt", Audience: "players"})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	m := testManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateToken(models.Account{ID: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = testManager().ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_TeamRoleNeedsTeam(t *testing.T) {
	m := testManager()
	token, err := m.GenerateToken(models.Account{ID: "u-1", Role: models.RoleTeam})
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	require.Error(t, err)
}

func TestPasswords(t *testing.T) {
	_, err := HashPassword("short")
	require.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "correct horse"))
	require.False(t, CheckPassword(hash, "wrong horse"))
}
