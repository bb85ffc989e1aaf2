package services

import "class-timetable/models"

// requireMember returns ErrForbidden unless the user belongs to the class
func requireMember(repo MembershipReader, classID, userID string) (*models.Membership, error) {
	m, err := repo.GetMembership(classID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrForbidden
	}
	return m, nil
}

// requireOwner returns ErrForbidden unless the user owns the class
func requireOwner(repo MembershipReader, classID, userID string) (*models.Membership, error) {
	m, err := requireMember(repo, classID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role != models.RoleOwner {
		return nil, ErrForbidden
	}
	return m, nil
}
