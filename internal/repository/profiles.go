package repository

import (
	"context"
	"fmt"

	"github.com/mach10-org/mach-app/internal/models"
)

// UpsertProfile writes the profile keyed on its primary id and returns the
// stored row.
func (r *Postgres) UpsertProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	query := r.psql.Insert("profiles").
		Columns("id", "username", "xp", "updated_at").
		Values(profile.ID, profile.Username, profile.XP, profile.UpdatedAt).
		Suffix(`ON CONFLICT (id)
			DO UPDATE SET username = EXCLUDED.username, xp = EXCLUDED.xp, updated_at = EXCLUDED.updated_at
			RETURNING id, username, xp, updated_at`)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (profile_id: %s): %w", profile.ID, err)
	}

	var stored models.Profile
	if err := r.db.GetContext(ctx, &stored, sql, args...); err != nil {
		return nil, fmt.Errorf("upsert profile (profile_id: %s): %w", profile.ID, err)
	}

	return &stored, nil
}
