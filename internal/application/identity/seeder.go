package identity

import (
	"context"
	"errors"

	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// SeedAdmin describes the bootstrap administrator
type SeedAdmin struct {
	Email    string
	Password string
}

// Seeder makes sure the shop can be administered after a fresh install
type Seeder struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(userRepo identity.UserRepository, logger *zap.Logger) *Seeder {
	return &Seeder{userRepo: userRepo, logger: logger}
}

// EnsureAdmin creates the admin account, or grants Admin to an existing
// account with that email. An empty email disables seeding.
func (s *Seeder) EnsureAdmin(ctx context.Context, admin SeedAdmin) error {
	if admin.Email == "" {
		s.logger.Debug("admin seeding disabled")
		return nil
	}

	existing, err := s.userRepo.FindByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		if existing.HasRole(identity.RoleAdmin) {
			return nil
		}
		if err := existing.SetRoles(append(existing.Roles, identity.RoleAdmin)); err != nil {
			return err
		}
		if err := s.userRepo.Save(ctx, existing); err != nil {
			return err
		}
		s.logger.Info("granted admin role to seed account", zap.String("user_id", existing.ID.String()))
		return nil
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}

	user, err := identity.NewUser(admin.Email, admin.Password, identity.Profile{FirstName: "Admin"}, identity.RoleAdmin)
	if err != nil {
		return err
	}
	user.ClearDomainEvents()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("seeded admin account", zap.String("user_id", user.ID.String()))
	return nil
}
