package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from r.RemoteAddr. Proxy headers are ignored.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// Resolver picks the address used to key rate limits. With TrustProxy set (the app
// runs behind a load balancer such as Cloud Run's front end) the first
// X-Forwarded-For hop wins.
type Resolver struct {
	TrustProxy bool
}

func (res Resolver) ClientIP(r *http.Request) string {
	if res.TrustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first := strings.TrimSpace(strings.Split(fwd, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
	}
	return RealClientIP(r)
}
