package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/db/dbtest"
	"github.com/in-nis/matura-back/internal/models"
)

const secret = "test-secret"

func TestLoginAndResolve(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	user := dbtest.CreateUser(t, store, "uczen", models.RoleStudent)
	svc := auth.NewService(store, secret, time.Hour)

	_, _, err := svc.Login(ctx, "uczen", "zle-haslo")
	assert.True(t, apperr.Is(err, apperr.KindInvalidCredentials))
	_, _, err = svc.Login(ctx, "nikt", "nikt")
	assert.True(t, apperr.Is(err, apperr.KindInvalidCredentials))

	token, sess, err := svc.Login(ctx, "uczen", "uczen")
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, models.RoleStudent, sess.Role)

	got, gotSess, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, sess.ID, gotSess.ID)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	dbtest.CreateUser(t, store, "uczen", models.RoleStudent)
	svc := auth.NewService(store, secret, time.Hour)
	other := auth.NewService(store, "other-secret", time.Hour)

	forged, _, err := other.Login(ctx, "uczen", "uczen")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": forged,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Resolve(ctx, token)
			assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "got %v", err)
		})
	}
}

func TestSessionExpiryAndPurge(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	dbtest.CreateUser(t, store, "uczen", models.RoleStudent)

	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	svc := auth.NewService(store, secret, time.Hour).WithClock(func() time.Time { return now })

	first, _, err := svc.Login(ctx, "uczen", "uczen")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "uczen", "uczen")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	_, _, err = svc.Resolve(ctx, first)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, _, err = svc.Resolve(ctx, first)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLogoutEndsSession(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	user := dbtest.CreateUser(t, store, "uczen", models.RoleStudent)
	svc := auth.NewService(store, secret, time.Hour)

	token, _, err := svc.Login(ctx, "uczen", "uczen")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))
	_, _, err = svc.Resolve(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	assert.NoError(t, svc.Logout(ctx, "not-a-token"))

	a, _, err := svc.Login(ctx, "uczen", "uczen")
	require.NoError(t, err)
	b, _, err := svc.Login(ctx, "uczen", "uczen")
	require.NoError(t, err)
	require.NoError(t, svc.EndUserSessions(ctx, user.ID))
	for _, token := range []string{a, b} {
		_, _, err = svc.Resolve(ctx, token)
		assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	}
}
