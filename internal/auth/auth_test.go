package auth

import (
	"testing"

	jwt "github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-signing-key"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret)
	tok := signedToken(t, testSecret, jwt.MapClaims{
		"email": "cliente@example.com",
		"user_metadata": map[string]interface{}{
			"full_name":  "Cliente Feliz",
			"avatar_url": "https://avatars.example/c.png",
		},
	})

	id, err := v.Verify(tok)
	require.NoError(t, err)

	assert.Equal(t, "cliente@example.com", id.Email)
	assert.Equal(t, "Cliente Feliz", id.Name)
	assert.Equal(t, "https://avatars.example/c.png", id.AvatarURL)
	assert.False(t, id.IsGuest())
	assert.Equal(t, "Cliente Feliz", id.DisplayName())
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	tok := signedToken(t, "other-secret", jwt.MapClaims{"email": "x@example.com"})

	_, err := v.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingEmail(t *testing.T) {
	v := NewVerifier(testSecret)
	tok := signedToken(t, testSecret, jwt.MapClaims{"sub": "abc"})

	_, err := v.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyNoSecretConfigured(t *testing.T) {
	v := NewVerifier("")
	tok := signedToken(t, testSecret, jwt.MapClaims{"email": "x@example.com"})

	_, err := v.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	v := NewVerifier(testSecret)
	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityDisplayName(t *testing.T) {
	assert.Equal(t, "Cliente", Identity{}.DisplayName())
	assert.Equal(t, "x@example.com", Identity{Email: "x@example.com"}.DisplayName())
	assert.Equal(t, "Rosi", Identity{Email: "x@example.com", Name: "Rosi"}.DisplayName())
}

func TestPolicy(t *testing.T) {
	p := NewPolicy([]string{" Dueno@Example.com ", "", "rosi@example.com"})

	assert.True(t, p.IsAdmin(Identity{Email: "dueno@example.com"}))
	assert.True(t, p.IsAdmin(Identity{Email: "ROSI@example.com"}))
	assert.False(t, p.IsAdmin(Identity{Email: "cliente@example.com"}))
	assert.False(t, p.IsAdmin(Identity{}))
}
