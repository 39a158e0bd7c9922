package domain

import "github.com/aussiebroadwan/permits/pkg/rbac"

// SeedUser is an account created or refreshed by the seed command.
type SeedUser struct {
	Email    string
	Name     string
	Role     rbac.Role
	Password string
}
