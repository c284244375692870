package audit

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// Proxy headers checked in priority order before falling back to the
// direct peer address.
var ipHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
	"X-Client-IP",
	"X-Originating-IP",
	"Proxy-Client-IP",
	"WL-Proxy-Client-IP",
}

// ClientIP extracts the caller's address from the request for audit rows.
func ClientIP(c *gin.Context) string {
	if c == nil {
		return "N/A"
	}
	for _, h := range ipHeaders {
		if v := c.GetHeader(h); v != "" {
			// X-Forwarded-For may carry a chain; the first hop is the client.
			return normalizeIP(strings.TrimSpace(strings.Split(v, ",")[0]))
		}
	}
	return normalizeIP(c.Request.RemoteAddr)
}

func normalizeIP(ip string) string {
	if ip == "" {
		return "N/A"
	}
	// Peer addresses come as host:port.
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if ip == "::1" || ip == "0:0:0:0:0:0:0:1" {
		return "127.0.0.1 (localhost)"
	}
	return ip
}
