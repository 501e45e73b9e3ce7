package model

import "time"

// RoleAdmin marks administrative accounts.
const RoleAdmin = 1

// User describes a registered storefront account.
type User struct {
	ID           int64
	Login        string
	Name         string
	Email        string
	PasswordHash string
	Role         int
	CreatedAt    time.Time
}

// IsAdmin reports whether the user carries the admin role flag.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
