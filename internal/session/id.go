package session

import (
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session id.
const CookieName = "trivia_session"

// FromRequest returns the session id carried by r, or "" if it has none or
// the value is not a valid id.
func FromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// Cookie builds the cookie that stores id in the browser.
func Cookie(id string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
