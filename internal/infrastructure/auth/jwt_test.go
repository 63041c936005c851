package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/shared/authorization"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := NewJWTService("secret", "faqplusplus", 30)

	token, err := svc.Generate("alice@contoso.com", "oid-1", authorization.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@contoso.com", claims.UserPrincipalName)
	assert.Equal(t, "oid-1", claims.ObjectID)
	assert.True(t, claims.HasRole(authorization.RoleAdmin))
	assert.False(t, claims.HasRole(authorization.RoleUser))
}

func TestJWTService_Verify(t *testing.T) {
	svc := NewJWTService("secret", "faqplusplus", 30)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other", "faqplusplus", 30)
		token, err := other.Generate("bob@contoso.com", "oid-2")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService("secret", "someone-else", 30)
		token, err := other.Generate("bob@contoso.com", "oid-2")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTService("secret", "faqplusplus", 1)
		past.nowFunc = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.Generate("bob@contoso.com", "oid-2")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("missing upn", func(t *testing.T) {
		token, err := svc.Generate("", "oid-3")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.Error(t, err)
	})
}
