package domain_test

import (
	"testing"

	"github.com/shortly/shortly-api/internal/api/domain"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := domain.ParseRole("admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, r)

	_, err = domain.ParseRole("superuser")
	require.Error(t, err)
}

func TestRolesStorageRoundTrip(t *testing.T) {
	roles := []domain.Role{domain.RoleUser, domain.RoleAdmin}
	stored := domain.JoinRoles(roles)
	require.Equal(t, "USER ADMIN", stored)
	require.Equal(t, roles, domain.ParseRoles(stored))
}

func TestParseRolesDropsUnknown(t *testing.T) {
	require.Equal(t, []domain.Role{domain.RoleUser}, domain.ParseRoles("USER BOGUS"))
	require.Empty(t, domain.ParseRoles(""))
}

func TestHasAnyRole(t *testing.T) {
	u := domain.User{Roles: domain.DefaultRoles()}
	require.True(t, u.HasAnyRole(domain.RoleUser))
	require.True(t, u.HasAnyRole(domain.RoleAdmin, domain.RoleUser))
	require.False(t, u.HasAnyRole(domain.RoleAdmin))
}

func TestWithoutHash(t *testing.T) {
	u := domain.User{ID: "x", PasswordHash: "secret"}
	clean := u.WithoutHash()
	require.Empty(t, clean.PasswordHash)
	require.Equal(t, "secret", u.PasswordHash, "original must be untouched")
}
