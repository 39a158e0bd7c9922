package domain

import (
	"time"

	"github.com/aussiebroadwan/permits/pkg/rbac"
)

type User struct {
	ID           string
	Email        string // unique, stored lower-cased
	Name         string
	Role         rbac.Role
	PasswordHash string // bcrypt encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
