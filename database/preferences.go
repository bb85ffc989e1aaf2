package database

import (
	"context"
	"database/sql"
	"time"
)

// ==================== PREFERENCE OPERATIONS ====================

// PreferenceAdapter persists key/value preferences for a single user
type PreferenceAdapter struct {
	repo   *Repository
	userID string
}

// PreferenceAdapter returns a preferences adapter scoped to userID
func (r *Repository) PreferenceAdapter(userID string) *PreferenceAdapter {
	return &PreferenceAdapter{repo: r, userID: userID}
}

func (a *PreferenceAdapter) Load(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := a.repo.db.QueryRowContext(ctx, `
		SELECT value FROM preferences WHERE user_id = ? AND key = ?
	`, a.userID, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (a *PreferenceAdapter) Save(ctx context.Context, key, value string) error {
	_, err := a.repo.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, a.userID, key, value, time.Now())
	return err
}
