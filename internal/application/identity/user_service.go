package identity

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService is the admin user management
type UserService struct {
	userRepo identity.UserRepository
	limits   appshared.Limits
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, limits appshared.Limits, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, limits: limits, logger: logger}
}

// List returns a page of users with their roles. An unknown role filter is rejected.
func (s *UserService) List(ctx context.Context, query UserListQuery) (*UserListView, error) {
	filter := shared.Filter{Page: query.Page, PageSize: s.limits.AdminPageSize, Search: query.Search}
	if query.Role != "" {
		role, err := identity.ParseRole(query.Role)
		if err != nil {
			return nil, err
		}
		filter.Filters = map[string]interface{}{identity.FilterRole: string(role)}
	}

	page, err := appshared.FetchPage(ctx, filter, s.userRepo.Count, s.userRepo.FindAll)
	if err != nil {
		return nil, err
	}
	query.Page = page.Page
	return &UserListView{
		Users: appshared.MapPage(page, ToUserResponse),
		Roles: identity.RoleNames(identity.AllRoles),
		Query: query,
	}, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Update edits a user's profile. A non-empty role list also replaces the role set.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateUserRequest) (*shared.Result, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.profile()); err != nil {
		return nil, err
	}
	if len(req.Roles) > 0 {
		if fail, err := s.applyRoles(actorID, user, req.Roles); err != nil || fail != nil {
			return fail, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("user_id", id.String()), zap.String("actor_id", actorID.String()))
	result := shared.Ok("User '" + user.Email + "' updated")
	return &result, nil
}

// SetRoles replaces a user's role set
func (s *UserService) SetRoles(ctx context.Context, actorID, id uuid.UUID, req SetRolesRequest) (*shared.Result, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fail, err := s.applyRoles(actorID, user, req.Roles); err != nil || fail != nil {
		return fail, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user roles changed",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actorID.String()),
		zap.Strings("roles", identity.RoleNames(user.Roles)),
	)
	result := shared.Ok("Roles updated for '" + user.Email + "'")
	return &result, nil
}

// applyRoles parses and sets roles. An admin cannot drop their own Admin role,
// which would leave the shop without anyone able to undo it.
func (s *UserService) applyRoles(actorID uuid.UUID, user *identity.User, names []string) (*shared.Result, error) {
	roles := make([]identity.Role, 0, len(names))
	for _, name := range names {
		role, err := identity.ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if user.ID == actorID && user.HasRole(identity.RoleAdmin) {
		keepsAdmin := false
		for _, r := range roles {
			if r == identity.RoleAdmin {
				keepsAdmin = true
			}
		}
		if !keepsAdmin {
			fail := shared.Fail("You cannot remove your own Admin role")
			return &fail, nil
		}
	}
	return nil, user.SetRoles(roles)
}
