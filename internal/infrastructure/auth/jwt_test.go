package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "storefront-access-secret-32-chars!",
		RefreshSecret:          "storefront-refresh-secret-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "storefront",
		MaxRefreshCount:        3,
	}
}

// sharedSecretConfig signs both kinds with one key, so only the token_type
// claim keeps them apart
func sharedSecretConfig() config.JWTConfig {
	cfg := shopJWTConfig()
	cfg.RefreshSecret = cfg.Secret
	return cfg
}

func shopper() GenerateTokenInput {
	return GenerateTokenInput{UserID: uuid.New(), Email: "ada@example.com", Roles: []string{"Customer"}}
}

func login(t *testing.T, svc *JWTService, input GenerateTokenInput) *TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair
}

func TestJWTService_Login(t *testing.T) {
	svc := NewJWTService(shopJWTConfig())
	input := shopper()
	pair := login(t, svc, input)

	assert.Equal(t, "Bearer", pair.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.AccessTokenExpiresAt, time.Second)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), pair.RefreshTokenExpiresAt, time.Second)

	t.Run("access token carries identity and roles", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.UserID.String(), claims.Subject)
		assert.Equal(t, input.Email, claims.Email)
		assert.Equal(t, input.Roles, claims.Roles)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.Equal(t, jwt.ClaimStrings{"storefront"}, claims.Audience)
	})

	t.Run("refresh token carries no roles", func(t *testing.T) {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Empty(t, claims.Roles)
		assert.Empty(t, claims.Email)
		assert.Zero(t, claims.RefreshCount)
	})

	t.Run("each token is revocable on its own", func(t *testing.T) {
		access, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, access.ID)
		assert.NotEqual(t, access.ID, refresh.ID)
	})
}

func TestJWTService_RefreshFallsBackToAccessSecret(t *testing.T) {
	cfg := shopJWTConfig()
	cfg.RefreshSecret = ""
	svc := NewJWTService(cfg)

	pair := login(t, svc, shopper())

	// a service that only knows the access secret accepts the refresh token
	onlyAccess := NewJWTService(sharedSecretConfig())
	_, err := onlyAccess.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestJWTService_Validate(t *testing.T) {
	svc := NewJWTService(shopJWTConfig())
	pair := login(t, svc, shopper())

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("signed by another store", func(t *testing.T) {
		cfg := shopJWTConfig()
		cfg.Secret = "another-store-secret-32-characters"
		_, err := NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		cfg := shopJWTConfig()
		cfg.Issuer = "back-office"
		_, err := NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "storefront"},
			UserID:           uuid.NewString(),
			Roles:            []string{"Admin"},
			TokenType:        TokenTypeAccess,
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTService(shopJWTConfig())
		later.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

		_, err := later.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("issued in the future", func(t *testing.T) {
		early := NewJWTService(shopJWTConfig())
		early.now = func() time.Time { return time.Now().Add(-time.Hour) }

		_, err := early.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("user id must be a uuid", func(t *testing.T) {
		raw, err := svc.sign(svc.access, time.Now(), &Claims{UserID: "guest"})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(raw)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestJWTService_TokenTypesDoNotMix(t *testing.T) {
	svc := NewJWTService(sharedSecretConfig())
	pair := login(t, svc, shopper())

	_, err := svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.RefreshTokenPair(pair.AccessToken, "", nil)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	t.Run("picks up role changes", func(t *testing.T) {
		svc := NewJWTService(shopJWTConfig())
		input := shopper()
		pair := login(t, svc, input)

		promoted := []string{"Customer", "Manager"}
		next, err := svc.RefreshTokenPair(pair.RefreshToken, "ada@shop.example", promoted)
		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, next.AccessToken)

		claims, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, promoted, claims.Roles)
		assert.Equal(t, "ada@shop.example", claims.Email)
	})

	t.Run("counts refreshes up to the cap", func(t *testing.T) {
		svc := NewJWTService(shopJWTConfig())
		pair := login(t, svc, shopper())

		for want := 1; want <= 3; want++ {
			next, err := svc.RefreshTokenPair(pair.RefreshToken, "", nil)
			require.NoError(t, err)
			claims, err := svc.ValidateRefreshToken(next.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, want, claims.RefreshCount)
			pair = next
		}

		_, err := svc.RefreshTokenPair(pair.RefreshToken, "", nil)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewJWTService(shopJWTConfig()).RefreshTokenPair("nope", "", nil)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_GetRefreshTokenExpiration(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, NewJWTService(shopJWTConfig()).GetRefreshTokenExpiration())
}

func TestClaims(t *testing.T) {
	t.Run("roles", func(t *testing.T) {
		manager := &Claims{Roles: []string{"Customer", "Manager"}}
		assert.True(t, manager.HasRole("Manager"))
		assert.False(t, manager.HasRole("manager"))
		assert.True(t, manager.HasAnyRole("Admin", "Manager"))
		assert.False(t, manager.HasAnyRole("Admin"))
		assert.False(t, (&Claims{}).HasAnyRole("Admin", "Manager"))
	})

	t.Run("times", func(t *testing.T) {
		svc := NewJWTService(shopJWTConfig())
		claims, err := svc.ValidateAccessToken(login(t, svc, shopper()).AccessToken)
		require.NoError(t, err)

		ttl := claims.GetRemainingTTL()
		assert.True(t, ttl > 14*time.Minute && ttl <= 15*time.Minute)
		assert.WithinDuration(t, time.Now(), claims.GetIssuedAtTime(), 2*time.Second)

		assert.Zero(t, (&Claims{}).GetRemainingTTL())
		assert.True(t, (&Claims{}).GetIssuedAtTime().IsZero())

		past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
		assert.Zero(t, past.GetRemainingTTL())
	})
}
