package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/smartrecruit/recruitment-backend/internal/utils"
)

func echoHandler(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "user_id": c.Get("user_id"),
        "email":   c.Get("email"),
        "role":    c.Get("role"),
    })
}

func runJWT(t *testing.T, secret, authHeader string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    err := JWTAuth(secret)(echoHandler)(c)
    require.NoError(t, err)
    return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
    rec := runJWT(t, "secret", "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMalformedToken(t *testing.T) {
    rec := runJWT(t, "secret", "Bearer not.a.jwt")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
    tok, err := utils.NewAccessToken("other-secret", 7, "a@b.c", "admin", 5)
    require.NoError(t, err)

    rec := runJWT(t, "secret", "Bearer "+tok.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidTokenInjectsClaims(t *testing.T) {
    tok, err := utils.NewAccessToken("secret", 7, "admin@example.com", "super_admin", 5)
    require.NoError(t, err)

    rec := runJWT(t, "secret", "Bearer "+tok.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"email":"admin@example.com"`)
    assert.Contains(t, rec.Body.String(), `"role":"super_admin"`)
    assert.Contains(t, rec.Body.String(), `"user_id":7`)
}
