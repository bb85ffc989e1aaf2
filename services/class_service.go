package services

import (
	"class-timetable/database"
	"class-timetable/mail"
	"class-timetable/models"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// inviteAlphabet leaves out characters that are easy to confuse (0/O, 1/I/L)
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// InviteCodeLength is the number of characters in an invitation code
const InviteCodeLength = 8

// ClassService handles classes, memberships and invitation codes
type ClassService struct {
	repo      ClassRepository
	mailer    Mailer
	publicURL string
	now       func() time.Time
	newCode   func() (string, error)
}

// NewClassService creates a new class service. mailer may be nil, in which case
// invitations are never emailed.
func NewClassService(repo ClassRepository, mailer Mailer, publicURL string) *ClassService {
	return &ClassService{
		repo:      repo,
		mailer:    mailer,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
		newCode:   GenerateInviteCode,
	}
}

// GenerateInviteCode returns a random code drawn from inviteAlphabet
func GenerateInviteCode() (string, error) {
	max := big.NewInt(int64(len(inviteAlphabet)))
	code := make([]byte, InviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}

// NormalizeInviteCode makes user input comparable to stored codes
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create creates a class owned by userID together with an unlimited invitation
func (cs *ClassService) Create(userID, name string) (*models.Class, *models.Invitation, error) {
	name = strings.TrimSpace(name)
	now := cs.now()

	class := &models.Class{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   userID,
		Role:      models.RoleOwner,
		CreatedAt: now,
	}

	code, err := cs.newCode()
	if err != nil {
		return nil, nil, fmt.Errorf("generate invitation code: %w", err)
	}
	inv := &models.Invitation{
		Code:      code,
		ClassID:   class.ID,
		CreatedBy: userID,
		CreatedAt: now,
	}

	if err := cs.repo.CreateClass(class, inv); err != nil {
		return nil, nil, err
	}

	return class, inv, nil
}

// List retrieves all classes the user belongs to
func (cs *ClassService) List(userID string) ([]models.Class, error) {
	return cs.repo.GetClassesForUser(userID)
}

// CreateInvitation issues a new code for a class owned by userID. When an email is
// given the code is also mailed; emailed reports whether delivery succeeded.
func (cs *ClassService) CreateInvitation(ctx context.Context, userID, classID string, req models.CreateInvitationRequest) (inv *models.Invitation, emailed bool, err error) {
	class, err := cs.repo.GetClass(classID)
	if err != nil {
		return nil, false, err
	}
	if class == nil {
		return nil, false, ErrClassNotFound
	}

	if _, err := requireOwner(cs.repo, classID, userID); err != nil {
		return nil, false, err
	}

	code, err := cs.newCode()
	if err != nil {
		return nil, false, fmt.Errorf("generate invitation code: %w", err)
	}

	now := cs.now()
	inv = &models.Invitation{
		Code:      code,
		ClassID:   classID,
		CreatedBy: userID,
		MaxUses:   req.MaxUses,
		CreatedAt: now,
	}
	if req.ExpiresInHours > 0 {
		expires := now.Add(time.Duration(req.ExpiresInHours) * time.Hour)
		inv.ExpiresAt = &expires
	}

	if err := cs.repo.CreateInvitation(inv); err != nil {
		return nil, false, err
	}

	if req.Email != "" && cs.mailer != nil {
		if err := cs.mailer.Send(ctx, cs.invitationMessage(req.Email, class, inv)); err != nil {
			slog.Warn("failed to email invitation", "class_id", classID, "error", err)
			return inv, false, nil
		}
		emailed = true
	}

	return inv, emailed, nil
}

func (cs *ClassService) invitationMessage(to string, class *models.Class, inv *models.Invitation) mail.Message {
	body := fmt.Sprintf(
		"<p>You have been invited to join <strong>%s</strong>.</p><p>Your invitation code is <code>%s</code>.</p>",
		html.EscapeString(class.Name), inv.Code,
	)
	if cs.publicURL != "" {
		body += fmt.Sprintf(`<p><a href="%s/?invite=%s">Open the timetable</a></p>`, cs.publicURL, inv.Code)
	}

	return mail.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Invitation to %s", class.Name),
		HTML:    body,
	}
}

// Join adds the user to the class behind an invitation code. Joining a class the
// user already belongs to succeeds without consuming a use.
func (cs *ClassService) Join(userID, code string) (class *models.Class, joined bool, err error) {
	code = NormalizeInviteCode(code)

	inv, err := cs.repo.GetInvitation(code)
	if err != nil {
		return nil, false, err
	}
	if inv == nil {
		return nil, false, ErrInvitationNotFound
	}

	class, err = cs.repo.GetClass(inv.ClassID)
	if err != nil {
		return nil, false, err
	}
	if class == nil {
		return nil, false, ErrClassNotFound
	}

	existing, err := cs.repo.GetMembership(inv.ClassID, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		class.Role = existing.Role
		return class, false, nil
	}

	now := cs.now()
	if inv.Expired(now) {
		return nil, false, ErrInvitationExpired
	}
	if inv.Exhausted() {
		return nil, false, ErrInvitationExhausted
	}

	joined, err = cs.repo.RedeemInvitation(code, userID, now)
	if err != nil {
		if errors.Is(err, database.ErrNoUsesLeft) {
			return nil, false, ErrInvitationExhausted
		}
		return nil, false, err
	}

	class.Role = models.RoleMember
	return class, joined, nil
}
