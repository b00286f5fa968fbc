package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mach10-org/mach-app/internal/localstate"
	"github.com/mach10-org/mach-app/internal/models"
)

// Profile owns the durable signed-in state: the cached user and the
// isConnected flag, both persisted in the local state store and kept in sync
// with each other.
type Profile struct {
	repo  models.Repository
	state *localstate.Store
}

func NewProfile(repo models.Repository, state *localstate.Store) *Profile {
	return &Profile{repo: repo, state: state}
}

// Connected reports whether a user is signed in.
func (p *Profile) Connected() (bool, error) {
	return p.state.Connected()
}

// User returns the cached user, or nil when signed out.
func (p *Profile) User() (*models.User, error) {
	return p.state.User()
}

// IncreasePoints adds delta to the cached user's xp. Local cache only; the
// backend is untouched until an explicit UpsertProfile. Without a cached
// user this is a no-op.
func (p *Profile) IncreasePoints(delta int) (*models.User, error) {
	user, err := p.state.User()
	if err != nil || user == nil {
		return nil, err
	}

	user.Metadata.XP += delta
	if err := p.state.SetUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// RemoveUser signs out: clears the connected flag and the cached user.
func (p *Profile) RemoveUser() error {
	if err := p.state.SetConnected(false); err != nil {
		return err
	}
	return p.state.SetUser(nil)
}

// SetUser caches the signed-in user and marks the session connected.
func (p *Profile) SetUser(user *models.User) error {
	if err := p.state.SetUser(user); err != nil {
		return err
	}
	return p.state.SetConnected(true)
}

// UpdateUser replaces only the metadata sub-object of the cached user, if
// one is loaded.
func (p *Profile) UpdateUser(meta models.UserMetadata) (*models.User, error) {
	user, err := p.state.User()
	if err != nil || user == nil {
		return user, err
	}

	user.Metadata = meta
	if err := p.state.SetUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpsertProfile sends the profile to the backend and applies the stored row
// into the local cache on success. Both outcomes come back as (data, error);
// nothing escapes past this boundary.
func (p *Profile) UpsertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	stored, err := p.repo.UpsertProfile(ctx, &profile)
	if err != nil {
		zap.S().Error("upsert profile", zap.Error(err), zap.String("profile_id", profile.ID))
		return nil, err
	}

	meta := models.UserMetadata{Username: stored.Username, XP: stored.XP}
	if _, err := p.UpdateUser(meta); err != nil {
		zap.S().Warn("apply upserted profile to local cache", zap.Error(err), zap.String("profile_id", stored.ID))
	}

	return stored, nil
}
