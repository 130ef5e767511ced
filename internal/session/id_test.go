package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromRequest(t *testing.T) {
	id := NewID()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(Cookie(id, false))
	assert.Equal(t, id, FromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", FromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	assert.Equal(t, "", FromRequest(r))
}

func TestCookie(t *testing.T) {
	c := Cookie("abc", true)
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, "/", c.Path)
}
