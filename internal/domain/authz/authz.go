// Package authz is the single capability-check layer consulted before every
// task, file and payment operation. Checks are pure and side-effect free;
// callers pass the authenticated principal and the owning client of the
// resource being touched.
package authz

import (
	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
)

// Capability identifies what an operation requires of the caller
type Capability int

const (
	// CapAdminOnly requires the ADMIN role
	CapAdminOnly Capability = iota
	// CapOwnerOrAdmin requires the caller to own the resource or be ADMIN
	CapOwnerOrAdmin
	// CapAuthenticated is open to any authenticated caller
	CapAuthenticated
)

// Caller is the authenticated principal attached to a request
type Caller struct {
	UserID uuid.UUID
	Email  string
	Role   entities.UserRole
}

// IsAdmin reports whether the caller holds the ADMIN role
func (c Caller) IsAdmin() bool {
	return c.Role == entities.UserRoleAdmin
}

// Authorize evaluates cap against the caller and the resource's owning
// client. ownerID is ignored for CapAdminOnly and CapAuthenticated.
// Returns nil on allow, ErrForbidden otherwise.
func Authorize(caller Caller, cap Capability, ownerID uuid.UUID) error {
	switch cap {
	case CapAuthenticated:
		return nil
	case CapAdminOnly:
		if caller.IsAdmin() {
			return nil
		}
	case CapOwnerOrAdmin:
		if caller.IsAdmin() || caller.UserID == ownerID {
			return nil
		}
	}
	return domainerrors.ErrForbidden
}
