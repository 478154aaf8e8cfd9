package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braindumpster/braindumpster-go/internal/common"
)

func newTestManager(accessTTL time.Duration) *Manager {
	return NewManager([]byte("test-secret"), accessTTL, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	m := newTestManager(time.Minute)

	require.NoError(t, m.Register("a@b.c", "pw", "Alice"))
	require.ErrorIs(t, m.Register("a@b.c", "other", "Bob"), ErrEmailTaken)

	userID, access, refresh, err := m.Login("a@b.c", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	got, err := m.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestLogin_WrongCredentials(t *testing.T) {
	m := newTestManager(time.Minute)
	require.NoError(t, m.Register("a@b.c", "pw", "Alice"))

	_, _, _, err := m.Login("a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = m.Login("nobody@b.c", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyAccess_Expired(t *testing.T) {
	m := newTestManager(-time.Minute) // already expired at issue time
	require.NoError(t, m.Register("a@b.c", "pw", "Alice"))

	_, access, _, err := m.Login("a@b.c", "pw")
	require.NoError(t, err)

	_, err = m.VerifyAccess(access)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerifyAccess_Garbage(t *testing.T) {
	m := newTestManager(time.Minute)
	_, err := m.VerifyAccess("not-a-jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefresh_RotatesAndInvalidates(t *testing.T) {
	m := newTestManager(time.Minute)
	require.NoError(t, m.Register("a@b.c", "pw", "Alice"))

	userID, _, refresh, err := m.Login("a@b.c", "pw")
	require.NoError(t, err)

	access2, refresh2, err := m.Refresh(refresh)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, refresh2)

	got, err := m.VerifyAccess(access2)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	// the old refresh token is single-use
	_, _, err = m.Refresh(refresh)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefresh_Expired(t *testing.T) {
	m := NewManager([]byte("s"), time.Minute, -time.Minute)
	require.NoError(t, m.Register("a@b.c", "pw", "Alice"))

	_, _, refresh, err := m.Login("a@b.c", "pw")
	require.NoError(t, err)

	_, _, err = m.Refresh(refresh)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}
