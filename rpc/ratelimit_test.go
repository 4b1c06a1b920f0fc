package rpc

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterDisabled(t *testing.T) {
	require.Nil(t, NewRateLimiter(RateLimit{}))
}

func TestRateLimiterRefillsAndEvicts(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{RequestsPerMinute: 60, Burst: 1})
	now := time.Unix(1_700_000_000, 0)
	limiter.clockNow = func() time.Time { return now }

	require.True(t, limiter.allow("a"))
	require.False(t, limiter.allow("a"))
	require.True(t, limiter.allow("b"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("a"))

	now = now.Add(10 * time.Minute)
	require.True(t, limiter.allow("c"))
	require.Len(t, limiter.visitors, 1)
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	require.Equal(t, "10.1.2.3", clientID(req))

	req.Header.Set("X-Forwarded-For", "192.168.0.9, 10.0.0.1")
	require.Equal(t, "192.168.0.9", clientID(req))

	req.Header.Set("X-Real-IP", "172.16.0.4")
	require.Equal(t, "172.16.0.4", clientID(req))
}
