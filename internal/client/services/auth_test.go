package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginLogout(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, nil)
	ctx := context.Background()

	assert.False(t, svc.LoggedIn())

	sess, err := svc.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.True(t, svc.LoggedIn())

	svc.Logout(ctx)
	assert.False(t, svc.LoggedIn())
}

func TestAuthService_ValidatesCredentials(t *testing.T) {
	svc := NewAuthService(&fakeClient{}, nil)
	ctx := context.Background()

	_, err := svc.Login(ctx, "not-an-email", "pw")
	require.Error(t, err)

	_, err = svc.Login(ctx, "a@b.c", "")
	require.Error(t, err)

	require.Error(t, svc.Register(ctx, "bad", "pw", "Alice"))
	require.NoError(t, svc.Register(ctx, "a@b.c", "pw", "Alice"))
}
