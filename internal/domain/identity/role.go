// Package identity carries the resolved actor consumed by the rest of the
// service. Token issuance and credential handling live outside this codebase;
// inbound tokens are only validated and reduced to an (ID, Role) pair.
package identity

import "github.com/google/uuid"

// Role is the access level of an authenticated actor
type Role string

const (
	// RoleAdmin may override computed prices and perform any status change
	RoleAdmin Role = "ADMIN"
	// RoleSecretary handles warehouse intake; may only move guides to IN_WAREHOUSE
	RoleSecretary Role = "SECRETARY"
	// RoleClient creates guides at the computed price
	RoleClient Role = "CLIENT"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleClient:
		return true
	}
	return false
}

// CanOverridePrice reports whether the role may deviate from the computed price
func (r Role) CanOverridePrice() bool {
	return r == RoleAdmin
}

// Actor is the resolved identity attached to a request
type Actor struct {
	ID   uuid.UUID
	Role Role
}
