package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingapi/internal/models"
)

func seedUser(t *testing.T, store *Store, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestStore_GetOrCreateProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, store, "Alice", "alice@example.com")

	profile, err := store.GetOrCreateProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.False(t, profile.AccountCreated.IsZero())

	// Second call returns the same record instead of creating another.
	again, err := store.GetOrCreateProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)

	_, err = store.GetOrCreateProfile(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStore_ProfileCounters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, store, "Bob", "bob@example.com")
	profile, err := store.GetOrCreateProfile(ctx, user.ID)
	require.NoError(t, err)

	loginAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.IncrementProfileViews(ctx, profile.ID))
	require.NoError(t, store.TouchLastLogin(ctx, profile.ID, loginAt))

	got, err := store.GetOrCreateProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ProfileViews)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(loginAt))
}

func TestStore_SearchProfiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "Alice Smith", "alice@example.com")
	bob := seedUser(t, store, "Bob Jones", "bob@example.com")

	p, err := store.GetOrCreateProfile(ctx, alice.ID)
	require.NoError(t, err)
	p.JobTitle = "Senior Developer"
	require.NoError(t, store.SaveProfile(ctx, p))

	p, err = store.GetOrCreateProfile(ctx, bob.ID)
	require.NoError(t, err)
	p.Company = "Developer Tools Inc"
	require.NoError(t, store.SaveProfile(ctx, p))

	profiles, err := store.SearchProfiles(ctx, "developer", 10)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	profiles, err = store.SearchProfiles(ctx, "smith", 10)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, alice.ID, profiles[0].UserID)
}

func TestStore_Leaderboard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "Alice", "alice@example.com")
	bob := seedUser(t, store, "Bob", "bob@example.com")
	_, err := store.GetOrCreateProfile(ctx, alice.ID)
	require.NoError(t, err)
	_, err = store.GetOrCreateProfile(ctx, bob.ID)
	require.NoError(t, err)

	seedPost(t, store, "Bob writes one", "content", models.PostStatusPublished, bob.ID)
	seedPost(t, store, "Bob writes two", "content", models.PostStatusDraft, bob.ID)

	entries, err := store.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, bob.ID, entries[0].Profile.UserID)
	assert.EqualValues(t, 2, entries[0].PostsCount)
	assert.Equal(t, alice.ID, entries[1].Profile.UserID)
	assert.EqualValues(t, 0, entries[1].PostsCount)

	entries, err = store.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_CreateUserUniqueEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "Alice", "alice@example.com")

	dup := &models.User{Name: "Other", Email: "alice@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, store.CreateUser(ctx, dup), ErrEmailTaken)

	_, err := store.GetUserByEmail(ctx, "alice@example.com")
	assert.NoError(t, err)
	_, err = store.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
