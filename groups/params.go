package groups

import (
	"errors"
	"strconv"
	"strings"
)

// Policy controls how a raw group query parameter is validated before resolution
type Policy int

const (
	// Strict distinguishes a missing group from an invalid one and rejects anything
	// that is not a positive integer
	Strict Policy = iota
	// Legacy treats zero and unparsable values as missing and lets negative integers
	// through unchanged
	Legacy
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

var (
	ErrMissing       = errors.New("group is required")
	ErrTypeMismatch  = errors.New("group must be an integer")
	ErrNotPositive   = errors.New("group must be greater than zero")
	ErrUnknownScheme = errors.New("scheme must be either 'group' or 'specialization'")
)

// Parse converts a query-string value into a group identifier according to policy
func Parse(raw string, policy Policy) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMissing
	}

	id, err := strconv.Atoi(raw)
	if policy == Legacy {
		if err != nil || id == 0 {
			return 0, ErrMissing
		}
		return id, nil
	}

	if err != nil {
		return 0, ErrTypeMismatch
	}
	if id <= 0 {
		return 0, ErrNotPositive
	}
	return id, nil
}

// Scheme names one of the partition schemes layered over the same lesson rows
type Scheme string

const (
	SchemeGroup          Scheme = "group"
	SchemeSpecialization Scheme = "specialization"
)

// ParseScheme defaults to the group scheme when raw is empty
func ParseScheme(raw string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SchemeGroup:
		return SchemeGroup, nil
	case SchemeSpecialization:
		return SchemeSpecialization, nil
	default:
		return "", ErrUnknownScheme
	}
}
