package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2id encoded, never serialized
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WithoutHash returns a copy safe to hand to public read paths.
func (u User) WithoutHash() User {
	u.PasswordHash = ""
	return u
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u User) HasAnyRole(required ...Role) bool {
	for _, want := range required {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
