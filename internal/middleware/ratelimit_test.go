package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func limitedProbe(l Limiter) http.Handler {
	return RateLimit(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitOverLimit(t *testing.T) {
	handler := limitedProbe(&stubLimiter{allowed: false})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
}

func TestRateLimitNilLimiterPassesThrough(t *testing.T) {
	handler := limitedProbe(nil)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRateLimitFailsOpenOnError(t *testing.T) {
	handler := limitedProbe(&stubLimiter{allowed: true, err: errors.New("redis down")})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 when the limiter errors, got %d", resp.Code)
	}
}

func TestRateLimitKeyIncludesIPAndPath(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	handler := limitedProbe(limiter)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if len(limiter.keys) != 1 || limiter.keys[0] != "10.1.2.3:/login" {
		t.Fatalf("unexpected limiter keys: %v", limiter.keys)
	}
}
