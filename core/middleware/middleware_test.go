package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hangout-api/core/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	mw := NewMiddleware("secret")
	e.GET("/me", func(c echo.Context) error {
		id, err := GetUserID(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id)
	}, mw.AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := utils.GenerateToken("secret", "alice", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := utils.GenerateToken("secret", "alice", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + valid, status: http.StatusOK, body: "alice"},
		{name: "missing", header: "", status: http.StatusUnauthorized, body: "MISSING_AUTHORIZATION_HEADER"},
		{name: "no bearer prefix", header: valid, status: http.StatusUnauthorized, body: "INVALID_TOKEN_FORMAT"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, body: "TOKEN_EXPIRED"},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized, body: "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}
