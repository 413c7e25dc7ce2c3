package jwt

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, token, secret string) (jwt.MapClaims, error) {
	t.Helper()
	tok, err := jwt.Parse(token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	return tok.Claims.(jwt.MapClaims), nil
}

func TestIssue(t *testing.T) {
	token, err := Issue("secret", "u-1", "admin", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := parse(t, token, "secret")
	require.NoError(t, err)
	require.Equal(t, "u-1", claims["sub"])
	require.Equal(t, "admin", claims["role"])
}

func TestIssue_WrongSecretFailsVerification(t *testing.T) {
	token, err := Issue("secret", "u-1", "user", 1)
	require.NoError(t, err)

	_, err = parse(t, token, "other-secret")
	require.Error(t, err)
}

func TestIssue_ExpiredTokenFailsVerification(t *testing.T) {
	token, err := Issue("secret", "u-1", "user", -1)
	require.NoError(t, err)

	_, err = parse(t, token, "secret")
	require.Error(t, err)
}
