package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.7", RealClientIP(req))

	req.RemoteAddr = "203.0.113.8"
	assert.Equal(t, "203.0.113.8", RealClientIP(req))
}

func TestResolver(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.2:443"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	assert.Equal(t, "10.0.0.2", Resolver{}.ClientIP(req))
	assert.Equal(t, "198.51.100.1", Resolver{TrustProxy: true}.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "10.0.0.2", Resolver{TrustProxy: true}.ClientIP(req))
}
