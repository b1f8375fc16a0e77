package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/smartrecruit/recruitment-backend/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
    body := []byte(`{"items":[]}`)

    payload, err := encodePayload(http.StatusOK, hdr, body)
    require.NoError(t, err)

    status, gotHdr, gotBody, ok := decodePayload(payload)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, hdr, gotHdr)
    assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
    _, _, _, ok := decodePayload([]byte{1, 2, 3})
    assert.False(t, ok)
}

func TestCacheKeyStableAcrossStrategies(t *testing.T) {
    e := echo.New()
    cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

    mk := func(target string) echo.Context {
        req := httptest.NewRequest(http.MethodGet, target, nil)
        c := e.NewContext(req, httptest.NewRecorder())
        c.SetPath("/v1/job-posts")
        return c
    }

    a := cacheKeyFrom(cfg, mk("/v1/job-posts?isActive=true"))
    b := cacheKeyFrom(cfg, mk("/v1/job-posts?isActive=true"))
    other := cacheKeyFrom(cfg, mk("/v1/job-posts?isActive=false"))

    assert.Equal(t, a, b)
    assert.NotEqual(t, a, other)
    assert.Contains(t, a, "cache:")
}

// A nil Redis client must leave requests untouched.
func TestCacheDisabledPassesThrough(t *testing.T) {
    cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
    mw := NewRedisCache(cfg, nil)

    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/job-posts", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    next := func(c echo.Context) error { return c.String(http.StatusOK, "fresh") }
    require.NoError(t, mw(next)(c))
    assert.Equal(t, "fresh", rec.Body.String())
    assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
    mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/candidates", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
    require.NoError(t, mw(next)(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKeyStrategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/job-posts", nil)
    req.Header.Set("X-Real-IP", "203.0.113.9")
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/job-posts")

    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
    assert.Equal(t, "rl:ip:203.0.113.9", buildRateKey(cfg, c))

    cfg.KeyStrategy = "route"
    assert.Equal(t, "rl:route:GET /v1/job-posts", buildRateKey(cfg, c))

    cfg.KeyStrategy = "ip_user_route"
    assert.Equal(t, "rl:ip:203.0.113.9:user:anon:route:GET /v1/job-posts", buildRateKey(cfg, c))
}
