package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const deviceIDKey = "deviceId"

// Device stores the caller's device token in the request context when the
// X-Device-Token header is present. Registration is not required to call the
// API; endpoints that personalize results simply see an empty token.
func Device() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := strings.TrimSpace(c.GetHeader("X-Device-Token")); token != "" {
			c.Set(deviceIDKey, token)
		}
		c.Next()
	}
}

// DeviceTokenFromContext returns the device token stored by Device, or "".
func DeviceTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(deviceIDKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}
