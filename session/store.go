package session

import (
	"class-timetable/models"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Lifetime of a session from creation
const Lifetime = 30 * 24 * time.Hour

// Store persists sessions in the sessions table
type Store struct {
	db   *sql.DB
	stop chan struct{}
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, stop: make(chan struct{})}
}

// Create starts a new session for an authenticated user
func (s *Store) Create(user *models.User, accessToken, refreshToken string, tokenExpiry time.Time) (*models.Session, error) {
	now := time.Now()
	sess := &models.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Picture:      user.Picture,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  tokenExpiry,
		ExpiresAt:    now.Add(Lifetime),
		CreatedAt:    now,
		LastUsedAt:   now,
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_id, email, name, picture, access_token, refresh_token,
			token_expiry, expires_at, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sess.ID, sess.UserID, sess.Email, sess.Name, sess.Picture, sess.AccessToken, sess.RefreshToken,
		sess.TokenExpiry, sess.ExpiresAt, sess.CreatedAt, sess.LastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Get returns nil for unknown or expired sessions
func (s *Store) Get(sessionID string) (*models.Session, error) {
	sess, err := s.scanOne(`
		SELECT id, user_id, email, name, picture, access_token, refresh_token,
		       token_expiry, expires_at, created_at, last_used_at
		FROM sessions WHERE id = ?
	`, sessionID)
	if err != nil || sess == nil {
		return nil, err
	}

	if time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}
	return sess, nil
}

// GetByUserID returns the most recently used live session of a user
func (s *Store) GetByUserID(userID string) (*models.Session, error) {
	return s.scanOne(`
		SELECT id, user_id, email, name, picture, access_token, refresh_token,
		       token_expiry, expires_at, created_at, last_used_at
		FROM sessions
		WHERE user_id = ? AND expires_at > ?
		ORDER BY last_used_at DESC
		LIMIT 1
	`, userID, time.Now())
}

func (s *Store) scanOne(query string, args ...interface{}) (*models.Session, error) {
	var sess models.Session
	var name, picture, accessToken, refreshToken sql.NullString
	var tokenExpiry sql.NullTime

	err := s.db.QueryRow(query, args...).Scan(
		&sess.ID, &sess.UserID, &sess.Email, &name, &picture, &accessToken, &refreshToken,
		&tokenExpiry, &sess.ExpiresAt, &sess.CreatedAt, &sess.LastUsedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess.Name = name.String
	sess.Picture = picture.String
	sess.AccessToken = accessToken.String
	sess.RefreshToken = refreshToken.String
	if tokenExpiry.Valid {
		sess.TokenExpiry = tokenExpiry.Time
	}
	return &sess, nil
}

// Touch updates the last-used timestamp
func (s *Store) Touch(sessionID string) error {
	_, err := s.db.Exec(`UPDATE sessions SET last_used_at = ? WHERE id = ?`, time.Now(), sessionID)
	return err
}

// UpdateUserToken stores a refreshed OAuth token on every session of the user
func (s *Store) UpdateUserToken(userID, accessToken, refreshToken string, expiry time.Time) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET
			access_token = ?,
			refresh_token = CASE WHEN ? = '' THEN refresh_token ELSE ? END,
			token_expiry = ?
		WHERE user_id = ?
	`, accessToken, refreshToken, refreshToken, expiry, userID)
	return err
}

func (s *Store) Delete(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// CleanupExpired removes expired sessions and returns how many were deleted
func (s *Store) CleanupExpired() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartCleanupRoutine removes expired sessions every hour until StopCleanupRoutine
func (s *Store) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n, err := s.CleanupExpired()
				if err != nil {
					slog.Error("session cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					slog.Info("expired sessions removed", "count", n)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Store) StopCleanupRoutine() {
	close(s.stop)
}
