package users

import "github.com/google/uuid"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Account is a login identity. Only the built-in demo accounts exist.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleUser), string(RoleAdmin):
		return true
	default:
		return false
	}
}
