package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// AuditMiddleware resolves the caller IP once per request for audit entries and rate limiting.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, resolveClientIP(c))
		c.Next()
	}
}

// GetIPFromContext returns the IP stored by AuditMiddleware.
func GetIPFromContext(c *gin.Context) string {
	if v, ok := c.Get(clientIPKey); ok {
		if ip, ok := v.(string); ok {
			return ip
		}
	}
	return resolveClientIP(c)
}

// Proxy headers in priority order. X-Forwarded-For may carry a chain.
var forwardedHeaders = []string{"X-Forwarded-For", "X-Real-Ip", "CF-Connecting-IP"}

func resolveClientIP(c *gin.Context) string {
	for _, h := range forwardedHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		first := strings.TrimSpace(strings.Split(v, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
