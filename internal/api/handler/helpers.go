package handler

import (
	"net"
	"net/http"
)

// clientIP trusts RemoteAddr, which the RealIP middleware has already
// rewritten from X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
