package persistence

import (
	"context"
	"testing"

	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("email lookups are case insensitive", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormUserRepository(db)
		u := seedUser(t, db, "ada@example.com", identity.RoleCustomer)

		found, err := repo.FindByEmail(ctx, "  ADA@example.com ")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
		assert.Equal(t, []identity.Role{identity.RoleCustomer}, found.Roles)

		exists, err := repo.ExistsByEmail(ctx, "Ada@Example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save replaces the role set", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormUserRepository(db)
		u := seedUser(t, db, "ada@example.com", identity.RoleCustomer)

		require.NoError(t, u.SetRoles([]identity.Role{identity.RoleAdmin, identity.RoleManager}))
		require.NoError(t, repo.Save(ctx, u))

		found, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []identity.Role{identity.RoleAdmin, identity.RoleManager}, found.Roles)
	})

	t.Run("filters by role and searches names", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormUserRepository(db)
		seedUser(t, db, "admin@example.com", identity.RoleAdmin)
		seedUser(t, db, "ada@example.com", identity.RoleCustomer)
		seedUser(t, db, "bob@example.com", identity.RoleCustomer)

		admins, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{identity.FilterRole: string(identity.RoleAdmin)}})
		require.NoError(t, err)
		require.Len(t, admins, 1)
		assert.Equal(t, "admin@example.com", admins[0].Email)

		count, err := repo.Count(ctx, shared.Filter{Search: "bob"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
