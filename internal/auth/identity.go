package auth

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt"
)

// Identity is what the external auth provider vouches for. A zero Identity
// is a guest; guests can browse and check out but cannot recall previous
// orders or reach the admin board.
type Identity struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

func (i Identity) IsGuest() bool {
	return i.Email == ""
}

// DisplayName is the name used on outbound order messages.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return "Cliente"
}

var ErrInvalidToken = errors.New("invalid auth token")

// Verifier checks access tokens minted by the hosted auth provider. The
// provider signs with HS256 and a shared secret; sign-in itself (the OAuth
// redirect dance) happens entirely on the provider's side.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a bearer token, returning the identity it
// carries. Any parse or signature failure comes back as ErrInvalidToken;
// callers downgrade those to guest rather than failing the request.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if len(v.secret) == 0 {
		return Identity{}, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if name, ok := meta["full_name"].(string); ok {
			id.Name = name
		}
		if avatar, ok := meta["avatar_url"].(string); ok {
			id.AvatarURL = avatar
		}
	}
	if id.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
