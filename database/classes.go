package database

import (
	"class-timetable/models"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoUsesLeft is returned when an invitation is consumed concurrently past its limit
var ErrNoUsesLeft = errors.New("invitation has no uses left")

// ==================== CLASS OPERATIONS ====================

// CreateClass inserts a class, its owner membership and an initial invitation atomically
func (r *Repository) CreateClass(class *models.Class, invitation *models.Invitation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO classes (id, name, owner_id, created_at)
		VALUES (?, ?, ?, ?)
	`, class.ID, class.Name, class.OwnerID, class.CreatedAt); err != nil {
		return fmt.Errorf("insert class: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO class_members (class_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`, class.ID, class.OwnerID, models.RoleOwner, class.CreatedAt); err != nil {
		return fmt.Errorf("insert owner membership: %w", err)
	}

	if invitation != nil {
		if err := insertInvitation(tx, invitation); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetClass retrieves a class by ID
func (r *Repository) GetClass(classID string) (*models.Class, error) {
	var class models.Class
	err := r.db.QueryRow(`
		SELECT id, name, owner_id, created_at
		FROM classes
		WHERE id = ?
	`, classID).Scan(&class.ID, &class.Name, &class.OwnerID, &class.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &class, nil
}

// GetClassesForUser lists every class the user is a member of, with their role
func (r *Repository) GetClassesForUser(userID string) ([]models.Class, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.name, c.owner_id, m.role, c.created_at
		FROM classes c
		JOIN class_members m ON m.class_id = c.id
		WHERE m.user_id = ?
		ORDER BY c.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]models.Class, 0)
	for rows.Next() {
		var class models.Class
		if err := rows.Scan(&class.ID, &class.Name, &class.OwnerID, &class.Role, &class.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	return classes, rows.Err()
}

// GetMembership returns nil when the user does not belong to the class
func (r *Repository) GetMembership(classID, userID string) (*models.Membership, error) {
	var m models.Membership
	err := r.db.QueryRow(`
		SELECT class_id, user_id, role, joined_at
		FROM class_members
		WHERE class_id = ? AND user_id = ?
	`, classID, userID).Scan(&m.ClassID, &m.UserID, &m.Role, &m.JoinedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// ==================== INVITATION OPERATIONS ====================

func insertInvitation(tx *sql.Tx, inv *models.Invitation) error {
	var expiresAt interface{}
	if inv.ExpiresAt != nil {
		expiresAt = *inv.ExpiresAt
	}

	_, err := tx.Exec(`
		INSERT INTO invitations (code, class_id, created_by, max_uses, uses, expires_at, created_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, inv.Code, inv.ClassID, inv.CreatedBy, inv.MaxUses, expiresAt, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// CreateInvitation stores a new invitation code
func (r *Repository) CreateInvitation(inv *models.Invitation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertInvitation(tx, inv); err != nil {
		return err
	}
	return tx.Commit()
}

// GetInvitation retrieves an invitation by its code
func (r *Repository) GetInvitation(code string) (*models.Invitation, error) {
	var inv models.Invitation
	var expiresAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT code, class_id, created_by, max_uses, uses, expires_at, created_at
		FROM invitations
		WHERE code = ?
	`, code).Scan(&inv.Code, &inv.ClassID, &inv.CreatedBy, &inv.MaxUses, &inv.Uses, &expiresAt, &inv.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		inv.ExpiresAt = &expiresAt.Time
	}
	return &inv, nil
}

// RedeemInvitation adds the user to the invitation's class and consumes one use.
// Returns joined=false without consuming a use when the user is already a member.
func (r *Repository) RedeemInvitation(code, userID string, now time.Time) (joined bool, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var classID string
	if err := tx.QueryRow(`SELECT class_id FROM invitations WHERE code = ?`, code).Scan(&classID); err != nil {
		return false, err
	}

	res, err := tx.Exec(`
		INSERT INTO class_members (class_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(class_id, user_id) DO NOTHING
	`, classID, userID, models.RoleMember, now)
	if err != nil {
		return false, fmt.Errorf("insert membership: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		return false, nil
	}

	res, err = tx.Exec(`
		UPDATE invitations SET uses = uses + 1
		WHERE code = ? AND (max_uses = 0 OR uses < max_uses)
	`, code)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		return false, ErrNoUsesLeft
	}

	return true, tx.Commit()
}
