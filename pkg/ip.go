package pkg

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address of the client behind the request, preferring
// the headers set by the reverse proxy. The port, if any, is dropped.
func ClientIP(r *http.Request) string {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// the first entry is the original client
		forwarded, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		ipAddr = strings.TrimSpace(forwarded)
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		return host
	}
	return ipAddr
}
