package adminauth

import (
	"testing"
	"time"

	"github.com/pascaldekloe/jwt"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, mutate func(*jwt.Claims)) string {
	t.Helper()

	var claims jwt.Claims
	claims.Subject = "ops-admin"
	claims.Expires = jwt.NewNumericTime(time.Now().Add(time.Hour))
	claims.Set = map[string]any{
		"role":   "ADMIN",
		"userId": float64(10),
	}

	if mutate != nil {
		mutate(&claims)
	}

	token, err := claims.HMACSign(jwt.HS256, []byte(secret))
	require.NoError(t, err)

	return string(token)
}

func TestFromBearerToken(t *testing.T) {
	verifier := New(testSecret)

	identity, err := verifier.FromBearerToken("Bearer " + signToken(t, testSecret, nil))
	require.NoError(t, err)
	require.Equal(t, "ops-admin", identity.Username)
	require.Equal(t, int64(10), identity.ID)
}

func TestFromBearerToken_WithoutScheme(t *testing.T) {
	verifier := New(testSecret)

	identity, err := verifier.FromBearerToken(signToken(t, testSecret, nil))
	require.NoError(t, err)
	require.Equal(t, "ops-admin", identity.Username)
}

func TestFromBearerToken_StringUserIDClaim(t *testing.T) {
	verifier := New(testSecret)

	token := signToken(t, testSecret, func(claims *jwt.Claims) {
		claims.Set["userId"] = "23"
	})

	identity, err := verifier.FromBearerToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(23), identity.ID)
}

func TestFromBearerToken_WrongSignature(t *testing.T) {
	verifier := New(testSecret)

	_, err := verifier.FromBearerToken(signToken(t, "another-secret", nil))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromBearerToken_Expired(t *testing.T) {
	verifier := New(testSecret)

	token := signToken(t, testSecret, func(claims *jwt.Claims) {
		claims.Expires = jwt.NewNumericTime(time.Now().Add(-time.Minute))
	})

	_, err := verifier.FromBearerToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromBearerToken_MissingAdminRole(t *testing.T) {
	verifier := New(testSecret)

	token := signToken(t, testSecret, func(claims *jwt.Claims) {
		claims.Set["role"] = "USER"
	})

	_, err := verifier.FromBearerToken(token)
	require.ErrorIs(t, err, ErrNotAdmin)
}

func TestFromBearerToken_Garbage(t *testing.T) {
	verifier := New(testSecret)

	_, err := verifier.FromBearerToken("Bearer not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
