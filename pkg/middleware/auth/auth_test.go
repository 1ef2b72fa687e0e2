package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/football_store/pkg/logging"
	"github.com/Skotchmaster/football_store/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func newServer(t *testing.T) *echo.Echo {
	t.Helper()

	m := NewJWTMiddleware(secret)
	e := echo.New()
	whoami := func(c echo.Context) error {
		id, err := UserID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return c.String(http.StatusOK, id.String()+"|"+Role(c))
	}
	e.GET("/me", whoami, m.RequireAuth)
	e.GET("/admin", whoami, m.RequireAdmin)
	return e
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(secret, sub, role, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return tok
}

func TestRequireAuth(t *testing.T) {
	e := newServer(t)
	userID := uuid.New()

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{name: "no token", setup: func(r *http.Request) {}, status: http.StatusUnauthorized},
		{name: "bad token", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
		}, status: http.StatusUnauthorized},
		{name: "bearer", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, userID.String(), "CUSTOMER"))
		}, status: http.StatusOK},
		{name: "cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: token(t, userID.String(), "CUSTOMER")})
		}, status: http.StatusOK},
		{name: "subject not a uuid", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, "42", "CUSTOMER"))
		}, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	e := newServer(t)
	userID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, userID, "CUSTOMER"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, userID, RoleAdmin))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID+"|"+RoleAdmin, rec.Body.String())
}

func TestRequireAuth_AddsUserToRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	userID := uuid.New()

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("cart_viewed")
		return c.NoContent(http.StatusNoContent)
	}, NewJWTMiddleware(secret).RequireAuth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(logging.IntoContext(req.Context(), logging.NewWithWriter(&buf, "info")))
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, userID.String(), "CUSTOMER"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, userID.String(), line["user_id"])
}
