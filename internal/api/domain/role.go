package domain

import (
	"fmt"
	"strings"
)

// Role is a closed enumeration. Membership drives route-level authorization.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DefaultRoles is assigned to registrations that don't request any roles.
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) String() string { return string(r) }

// ParseRole validates a single role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("domain: unknown role %q", s)
	}
	return r, nil
}

// ParseRoles parses the space-delimited storage form into a role set.
// Unknown names are dropped rather than failing the whole read.
func ParseRoles(s string) []Role {
	fields := strings.Fields(s)
	roles := make([]Role, 0, len(fields))
	for _, f := range fields {
		r, err := ParseRole(f)
		if err != nil {
			continue
		}
		roles = append(roles, r)
	}
	return roles
}

// JoinRoles renders a role set into its space-delimited storage form.
func JoinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// RoleStrings converts a role set to plain strings for token claims.
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// RolesFromStrings converts claim strings back into a role set, dropping
// anything outside the enumeration.
func RolesFromStrings(ss []string) []Role {
	roles := make([]Role, 0, len(ss))
	for _, s := range ss {
		r, err := ParseRole(s)
		if err != nil {
			continue
		}
		roles = append(roles, r)
	}
	return roles
}
