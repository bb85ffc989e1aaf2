package database

import (
	"class-timetable/models"
	"database/sql"
	"time"
)

// ==================== USER OPERATIONS ====================

// GetUser retrieves a user by ID
func (r *Repository) GetUser(userID string) (*models.User, error) {
	var user models.User
	var name, picture sql.NullString

	err := r.db.QueryRow(`
		SELECT id, google_id, email, name, picture, created_at, last_login_at
		FROM users WHERE id = ?
	`, userID).Scan(
		&user.ID, &user.GoogleID, &user.Email, &name, &picture,
		&user.CreatedAt, &user.LastLoginAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Name = name.String
	user.Picture = picture.String
	return &user, nil
}

// UpsertUser creates or updates a user record
func (r *Repository) UpsertUser(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, google_id, email, name, picture, created_at, last_login_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			picture = excluded.picture,
			last_login_at = excluded.last_login_at,
			updated_at = excluded.updated_at
	`,
		user.ID, user.GoogleID, user.Email, user.Name, user.Picture,
		user.CreatedAt, user.LastLoginAt, time.Now(),
	)
	return err
}
