package middlewares

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"signage/services"

	"github.com/gin-gonic/gin"
)

// DeviceKeyHeader carries the kiosk's base64-encoded private key proof.
const DeviceKeyHeader = "X-DEVICE-KEY"

// DeviceAuthMiddleware verifies the device credential on kiosk-facing
// routes. Missing or failing credentials yield 401 with no further detail.
// Authenticated requests run under a bounded timeout and refresh the
// device's last-seen timestamp.
func DeviceAuthMiddleware(auth *services.DeviceAuthService, devices *services.DeviceService, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, err := strconv.ParseUint(c.Param("deviceId"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
			return
		}

		key := c.GetHeader(DeviceKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "device key required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		if !auth.IsAuthorizedDevice(ctx, uint(deviceID), key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}

		devices.TouchLastSeen(uint(deviceID))

		c.Set("deviceID", uint(deviceID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
