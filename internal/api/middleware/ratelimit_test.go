package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubLimiter returns a fixed verdict and records the subject it saw.
type stubLimiter struct {
	allow   bool
	err     error
	subject string
	scope   string
}

func (s *stubLimiter) Allow(_ context.Context, scope, subject string, _ int, _ time.Duration) (bool, error) {
	s.scope = scope
	s.subject = subject
	return s.allow, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	h := RateLimit(limiter, "chat", 10, time.Minute)(okHandler())

	r := httptest.NewRequest("POST", "/chat/tenant-1", nil)
	r.RemoteAddr = "203.0.113.9:44211"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chat", limiter.scope)
	assert.Equal(t, "203.0.113.9", limiter.subject)
}

func TestRateLimit_Blocked(t *testing.T) {
	limiter := &stubLimiter{allow: false}
	h := RateLimit(limiter, "chat", 10, time.Minute)(okHandler())

	r := httptest.NewRequest("POST", "/chat/tenant-1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_LimiterErrorFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	h := RateLimit(limiter, "chat", 10, time.Minute)(okHandler())

	r := httptest.NewRequest("POST", "/chat/tenant-1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
