package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strayline/casevault/internal/handler"
	"github.com/strayline/casevault/internal/session"
)

type stubPool struct {
	pingErr error
}

func (p *stubPool) Ping(ctx context.Context) error { return p.pingErr }
func (p *stubPool) Close()                         {}

func newTestServer() *Server {
	actions := handler.NewActionHandler(nil, nil, session.NewStaticValidator("token"), session.NewCSRFValidator("secret"))
	return NewServer(Options{
		Port:        0,
		APIKey:      "test-api-key",
		RateLimiter: NewRateLimiter(time.Minute, 100, time.Second),
		DBPool:      &stubPool{},
		Actions:     actions,
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueSameOrigin, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueXSSBlock, rec.Header().Get(HeaderXSSProtection))
	assert.Equal(t, HeaderValueReferrerStrictOrigin, rec.Header().Get(HeaderReferrerPolicy))
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer()

	t.Run("health endpoints are public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("api requires key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/action", nil)
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/action", nil)
		req.Header.Set(HeaderAPIKey, "not-the-key")
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct key passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/action", nil)
		req.Header.Set(HeaderAPIKey, "test-api-key")
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)

		// Reaches the handler, which rejects the empty body as validation
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(50*time.Millisecond, 3, time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"), "fourth request should be denied")

	// Other identifiers are unaffected
	assert.True(t, limiter.Allow("10.0.0.2"))

	// Quota recovers once the window passes
	time.Sleep(60 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 1, time.Second)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := RateLimitMiddleware(limiter, nil)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/action", nil)
	req.RemoteAddr = "192.168.1.50:1234"

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, handler.CodeRateLimited, resp.Error)

	t.Run("health endpoints bypass the limiter", func(t *testing.T) {
		probe := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		probe.RemoteAddr = "192.168.1.50:1234"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, probe)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestExtractIP(t *testing.T) {
	t.Run("direct connection", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		assert.Equal(t, "203.0.113.7", extractIP(req, nil))
	})

	t.Run("forwarded header ignored from untrusted source", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		req.Header.Set(HeaderForwardedFor, "198.51.100.9")
		assert.Equal(t, "203.0.113.7", extractIP(req, nil))
	})

	t.Run("forwarded header honored from trusted proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set(HeaderForwardedFor, "198.51.100.9, 198.51.100.10")
		assert.Equal(t, "198.51.100.10", extractIP(req, []string{"10.0.0.1"}))
	})
}
