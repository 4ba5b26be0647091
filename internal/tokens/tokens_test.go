package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessClaimsRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	exp := time.Now().Add(15 * time.Minute).UTC()

	claims := AccessClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	parsed, err := AccessClaimsFromToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", parsed.Subject)
	assert.Equal(t, "admin", parsed.Role)
	assert.WithinDuration(t, exp, parsed.ExpiresAt.Time, time.Second)

	_, err = AccessClaimsFromToken(signed, []byte("wrong-secret"))
	require.Error(t, err)
}

func TestExpiredTokenReportsExpiry(t *testing.T) {
	secret := []byte("test-secret")
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ID:        NewJTI(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = RefreshClaimsFromToken(signed, secret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCookieHelpers(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	ck := CreateCookie("accessToken", "v", "/", exp)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, "v", ck.Value)

	del := DeleteCookie("accessToken", "/")
	assert.Empty(t, del.Value)
	assert.Negative(t, del.MaxAge)
}
