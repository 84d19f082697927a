package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetClientIP resolves the originating client address, preferring the
// proxy-set headers over the raw remote address.
func GetClientIP(c *gin.Context) string {
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.ClientIP()
}
