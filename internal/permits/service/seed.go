package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/permits/internal/permits/domain"
	"github.com/aussiebroadwan/permits/internal/permits/store"
	"github.com/aussiebroadwan/permits/pkg/cryptox"
	"github.com/aussiebroadwan/permits/pkg/idx"
	"github.com/aussiebroadwan/permits/pkg/rbac"
	"github.com/aussiebroadwan/permits/pkg/slogx"
)

// Seed outcomes reported per user.
const (
	SeedCreated = "created"
	SeedUpdated = "updated"
	SeedSkipped = "skipped"
)

var ErrInvalidSeedUser = errors.New("invalid seed user")

// SeedResult reports what happened to one seed user. Password is set only
// when it was generated during this run, so it can be shown once.
type SeedResult struct {
	Email    string
	Role     rbac.Role
	Status   string
	Password string
}

type SeedService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
}

// DefaultSeedUsers returns the accounts created on a fresh install.
func DefaultSeedUsers() []domain.SeedUser {
	return []domain.SeedUser{
		{Email: "admin@example.com", Name: "Admin User", Role: rbac.RoleAdmin},
		{Email: "coord@example.com", Name: "Coordinator User", Role: rbac.RoleCoordinator},
		{Email: "billing@example.com", Name: "Billing User", Role: rbac.RoleBilling},
	}
}

// Seed creates any missing users. Existing users are left untouched unless
// reset is set, in which case their name, role and password are replaced.
// Users without a password get a generated one. All changes are applied in a
// single transaction.
func (s *SeedService) Seed(ctx context.Context, users []domain.SeedUser, reset bool) ([]SeedResult, error) {
	l := slogx.FromContext(ctx)

	for _, u := range users {
		if strings.TrimSpace(u.Email) == "" || !u.Role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSeedUser, u.Email)
		}
	}

	results := make([]SeedResult, 0, len(users))
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		results = results[:0]
		for _, su := range users {
			existing, err := tx.Users().GetUserByEmail(ctx, su.Email)
			switch {
			case err == nil && !reset:
				results = append(results, SeedResult{Email: existing.Email, Role: existing.Role, Status: SeedSkipped})
				continue
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return fmt.Errorf("look up %s: %w", su.Email, err)
			}

			password, generated := su.Password, false
			if password == "" {
				if password, err = cryptox.GeneratePassword(); err != nil {
					return err
				}
				generated = true
			}
			hash, err := s.Hasher.Hash(password)
			if err != nil {
				return err
			}

			res := SeedResult{Email: strings.ToLower(strings.TrimSpace(su.Email)), Role: su.Role}
			if generated {
				res.Password = password
			}

			if existing.ID != "" {
				existing.Name = su.Name
				existing.Role = su.Role
				existing.PasswordHash = hash
				if err := tx.Users().UpdateUser(ctx, existing); err != nil {
					return fmt.Errorf("update %s: %w", su.Email, err)
				}
				res.Status = SeedUpdated
			} else {
				now := time.Now()
				if err := tx.Users().CreateUser(ctx, domain.User{
					ID:           idx.NewAt(now).String(),
					Email:        su.Email,
					Name:         su.Name,
					Role:         su.Role,
					PasswordHash: hash,
					CreatedAt:    now,
					UpdatedAt:    now,
				}); err != nil {
					return fmt.Errorf("create %s: %w", su.Email, err)
				}
				res.Status = SeedCreated
			}
			results = append(results, res)
			l.Info("seeded user",
				slog.String("email", res.Email),
				slog.String("role", string(res.Role)),
				slog.String("status", res.Status),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
