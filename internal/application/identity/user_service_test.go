package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAdmin(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("admin@example.com", testPassword, identity.Profile{}, identity.RoleAdmin)
	require.NoError(t, err)
	return u
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by role and clamps the page", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		svc := NewUserService(repo, appshared.DefaultLimits(), zap.NewNop())

		byRole := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters[identity.FilterRole] == "Manager" })
		repo.On("Count", ctx, byRole).Return(int64(3), nil)
		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 10 && f.Search == "jo"
		})).Return([]identity.User{*testCustomer(t)}, nil)

		view, err := svc.List(ctx, UserListQuery{Search: "jo", Role: "manager", Page: 4})
		require.NoError(t, err)
		assert.Equal(t, 1, view.Query.Page)
		assert.Len(t, view.Users.Items, 1)
		assert.Equal(t, []string{"Admin", "Manager", "Customer"}, view.Roles)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := NewUserService(new(testutil.MockUserRepository), appshared.DefaultLimits(), zap.NewNop())
		_, err := svc.List(ctx, UserListQuery{Role: "owner"})
		assert.Equal(t, "INVALID_ROLE", shared.CodeOf(err))
	})
}

func TestUserService_SetRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the role set", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		svc := NewUserService(repo, appshared.DefaultLimits(), zap.NewNop())
		user := testCustomer(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		result, err := svc.SetRoles(ctx, uuid.New(), user.ID, SetRolesRequest{Roles: []string{"Manager", "customer"}})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, user.CanManageStore())
	})

	t.Run("admin cannot demote themselves", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		svc := NewUserService(repo, appshared.DefaultLimits(), zap.NewNop())
		admin := testAdmin(t)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)

		result, err := svc.SetRoles(ctx, admin.ID, admin.ID, SetRolesRequest{Roles: []string{"Manager"}})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.True(t, admin.HasRole(identity.RoleAdmin))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown role", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		svc := NewUserService(repo, appshared.DefaultLimits(), zap.NewNop())
		user := testCustomer(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := svc.SetRoles(ctx, uuid.New(), user.ID, SetRolesRequest{Roles: []string{"Owner"}})
		assert.Equal(t, "INVALID_ROLE", shared.CodeOf(err))
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockUserRepository)
	svc := NewUserService(repo, appshared.DefaultLimits(), zap.NewNop())
	user := testCustomer(t)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	result, err := svc.Update(ctx, uuid.New(), user.ID, UpdateUserRequest{
		ProfileFields: ProfileFields{FirstName: "Janet", Country: "VN"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Janet", user.FirstName)
	assert.Equal(t, []identity.Role{identity.RoleCustomer}, user.Roles, "roles untouched when none are sent")
}

func TestSeeder_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	seed := SeedAdmin{Email: "root@example.com", Password: "changeme1"}

	t.Run("creates the account", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByEmail", ctx, seed.Email).Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Email == seed.Email && u.HasRole(identity.RoleAdmin)
		})).Return(nil)

		require.NoError(t, NewSeeder(repo, zap.NewNop()).EnsureAdmin(ctx, seed))
		repo.AssertExpectations(t)
	})

	t.Run("promotes an existing account", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		user := testCustomer(t)
		repo.On("FindByEmail", ctx, seed.Email).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		require.NoError(t, NewSeeder(repo, zap.NewNop()).EnsureAdmin(ctx, seed))
		assert.True(t, user.HasRole(identity.RoleAdmin))
		assert.True(t, user.HasRole(identity.RoleCustomer))
	})

	t.Run("existing admin is left alone", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByEmail", ctx, seed.Email).Return(testAdmin(t), nil)

		require.NoError(t, NewSeeder(repo, zap.NewNop()).EnsureAdmin(ctx, seed))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("disabled without an email", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		require.NoError(t, NewSeeder(repo, zap.NewNop()).EnsureAdmin(ctx, SeedAdmin{}))
		repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}
