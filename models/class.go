package models

import "time"

// Member roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Membership struct {
	ClassID  string    `json:"class_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Invitation is a shareable code granting membership in a class.
// MaxUses of zero means unlimited.
type Invitation struct {
	Code      string     `json:"code"`
	ClassID   string     `json:"class_id"`
	CreatedBy string     `json:"created_by"`
	MaxUses   int        `json:"max_uses"`
	Uses      int        `json:"uses"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Expired reports whether the invitation can no longer be redeemed at t
func (i *Invitation) Expired(t time.Time) bool {
	return i.ExpiresAt != nil && !t.Before(*i.ExpiresAt)
}

// Exhausted reports whether every use has been consumed
func (i *Invitation) Exhausted() bool {
	return i.MaxUses > 0 && i.Uses >= i.MaxUses
}

type CreateClassRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100,classname"`
}

type CreateInvitationRequest struct {
	MaxUses        int    `json:"max_uses" validate:"gte=0,lte=1000"`
	ExpiresInHours int    `json:"expires_in_hours" validate:"gte=0,lte=8760"`
	Email          string `json:"email" validate:"omitempty,email"`
}

type JoinClassRequest struct {
	Code string `json:"code" validate:"required,invitecode"`
}
