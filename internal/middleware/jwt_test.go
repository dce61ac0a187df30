package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": UserID(c),
			"role":    c.Get("role"),
		})
	}
	e.GET("/protected", h, mw...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMissingBearer(t *testing.T) {
	rec := runProtected(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec := runProtected(t, "Bearer not-a-token", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 9, "CUSTOMER", 15)
	require.NoError(t, err)
	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 9, "CUSTOMER", 15)
	require.NoError(t, err)
	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":9`)
	assert.Contains(t, rec.Body.String(), `"role":"CUSTOMER"`)
}

func TestRequireRoleForbidden(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 9, "CUSTOMER", 15)
	require.NoError(t, err)
	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowed(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 9, "ADMIN", 15)
	require.NoError(t, err)
	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	rec := runProtected(t, "", RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
