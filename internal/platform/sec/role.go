// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Actor Roles

// UserRole represents the authorization level carried by an access token.
type UserRole string

const (
	// Can read and replace the access settings and probe the gateway.
	RoleAdmin UserRole = "admin"

	// Shop staff; same request rights as members.
	RoleStaff UserRole = "staff"

	// Default role for makers holding a membership.
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleStaff:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
