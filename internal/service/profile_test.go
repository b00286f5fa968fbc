package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mach10-org/mach-app/internal/models"
	"github.com/mach10-org/mach-app/pkg/utils"
)

func TestSetUserMarksConnected(t *testing.T) {
	repo := &fakeRepo{}
	profile := newProfile(t, repo)

	require.NoError(t, profile.SetUser(&models.User{
		ID:       "user-1",
		Metadata: models.UserMetadata{Username: "ada", XP: 50},
	}))

	connected, err := profile.Connected()
	require.NoError(t, err)
	assert.True(t, connected)

	user, err := profile.User()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada", user.Metadata.Username)
}

func TestRemoveUserClearsEverything(t *testing.T) {
	repo := &fakeRepo{}
	profile := newProfile(t, repo)
	require.NoError(t, profile.SetUser(&models.User{ID: "user-1"}))

	require.NoError(t, profile.RemoveUser())

	connected, err := profile.Connected()
	require.NoError(t, err)
	assert.False(t, connected)

	user, err := profile.User()
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestIncreasePointsIsLocalOnly(t *testing.T) {
	repo := &fakeRepo{}
	profile := newProfile(t, repo)
	require.NoError(t, profile.SetUser(&models.User{
		ID:       "user-1",
		Metadata: models.UserMetadata{XP: 50},
	}))

	user, err := profile.IncreasePoints(10)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 60, user.Metadata.XP)
	assert.Zero(t, repo.upsertProfileCalls)

	// The new total is persisted in the local cache.
	cached, err := profile.User()
	require.NoError(t, err)
	assert.Equal(t, 60, cached.Metadata.XP)
}

func TestIncreasePointsWithoutUserIsNoop(t *testing.T) {
	repo := &fakeRepo{}
	profile := newProfile(t, repo)

	user, err := profile.IncreasePoints(10)

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, repo.upsertProfileCalls)
}

func TestUpdateUserReplacesMetadataOnly(t *testing.T) {
	repo := &fakeRepo{}
	profile := newProfile(t, repo)
	require.NoError(t, profile.SetUser(&models.User{
		ID:       "user-1",
		Email:    "ada@example.com",
		Metadata: models.UserMetadata{Username: "ada", XP: 50},
	}))

	user, err := profile.UpdateUser(models.UserMetadata{Username: "ada", XP: 75})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 75, user.Metadata.XP)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "user-1", user.ID)
}

func TestUpdateUserWithoutUserIsNoop(t *testing.T) {
	repo := &fakeRepo{}
	profile := newProfile(t, repo)

	user, err := profile.UpdateUser(models.UserMetadata{XP: 75})

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpsertProfileAppliesRowToCache(t *testing.T) {
	repo := &fakeRepo{}
	profile := newProfile(t, repo)
	require.NoError(t, profile.SetUser(&models.User{
		ID:       "user-1",
		Metadata: models.UserMetadata{Username: "ada", XP: 50},
	}))

	stored, err := profile.UpsertProfile(context.Background(), models.Profile{
		ID:        "user-1",
		Username:  "ada",
		XP:        60,
		UpdatedAt: utils.NowUTC(),
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 60, stored.XP)
	assert.Equal(t, 1, repo.upsertProfileCalls)

	user, err := profile.User()
	require.NoError(t, err)
	assert.Equal(t, 60, user.Metadata.XP)
}

func TestUpsertProfileBackendFailure(t *testing.T) {
	repo := &fakeRepo{profileErr: errors.New("backend down")}
	profile := newProfile(t, repo)
	require.NoError(t, profile.SetUser(&models.User{
		ID:       "user-1",
		Metadata: models.UserMetadata{XP: 50},
	}))

	stored, err := profile.UpsertProfile(context.Background(), models.Profile{ID: "user-1", XP: 60})

	assert.Nil(t, stored)
	require.Error(t, err)

	// Cache stays untouched on failure.
	user, uerr := profile.User()
	require.NoError(t, uerr)
	assert.Equal(t, 50, user.Metadata.XP)
}
