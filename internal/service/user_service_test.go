package service

import (
	"context"
	"testing"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/stretchr/testify/require"
)

func TestUserUpsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := NewUserService(env.users, env.sessions)

	_, err := users.Upsert(ctx, &models.User{Name: "Kiran", Phone: "5550123"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	session := env.login(t)

	created, err := users.Upsert(ctx, &models.User{Name: " Kiran ", Phone: "5550123"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Kiran", created.Name)

	created.Name = "Kiran Das"
	updated, err := users.Upsert(ctx, created)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	got, err := users.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Kiran Das", got.Name)

	_, err = users.Upsert(ctx, &models.User{ID: created.ID, Name: "Kiran", Phone: testPhone})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = users.Upsert(ctx, &models.User{Name: "K", Phone: "5550124"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	snap, err := users.Snapshot(ctx, session.User.ID)
	require.NoError(t, err)
	require.Equal(t, models.CustomerSnapshot{UserID: session.User.ID, Name: "Asha Rao", Phone: testPhone}, snap)

	_, err = users.Get(ctx, "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserEditsDoNotRewriteBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := NewUserService(env.users, env.sessions)
	session := env.login(t)
	w := env.approvedWorker(t, "Ravi", 500)
	b := env.book(t, session, w.ID)

	me := session.User.Clone()
	me.Name = "Asha Renamed"
	_, err := users.Upsert(ctx, me)
	require.NoError(t, err)

	got, err := env.bookings.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "Asha Rao", got.CustomerSnapshot.Name)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	prefs := NewPreferencesService()

	require.Equal(t, models.DefaultPreferences(), prefs.Get(ctx))

	dark := models.ThemeDark
	lang := "HI"
	got, err := prefs.Update(ctx, &models.PreferencesUpdate{Theme: &dark, Language: &lang})
	require.NoError(t, err)
	require.Equal(t, models.Preferences{Theme: models.ThemeDark, Units: models.UnitsMetric, Language: "hi"}, got)

	bad := "sepia"
	_, err = prefs.Update(ctx, &models.PreferencesUpdate{Theme: &bad})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Equal(t, models.ThemeDark, prefs.Get(ctx).Theme)
}
