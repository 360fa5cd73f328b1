package middleware

import (
	"net/http"
	"strings"

	"kikostats/pkg/config"
	"kikostats/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards the lifecycle endpoints with a static API key. The
// key is accepted either as a bearer token or in the X-Api-Key header. An
// empty configured key disables the check, which is the expected setup when
// the workflow runtime runs on the same host.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.GlobalConfig.Server.APIKey
		if expected == "" {
			c.Next()
			return
		}

		token := c.GetHeader("X-Api-Key")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if token != expected {
			logger.WarnCtx(c.Request.Context(), "rejected lifecycle request from %s: invalid API key", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
