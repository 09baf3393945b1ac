package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "amoree_session"

// sessionID returns the caller's cart session, minting a new cookie on the
// first visit. The cookie only identifies the server-side cart; it carries
// no identity.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
