package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// The API only returns JSON and file downloads.
	apiCSP = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	// gin-swagger serves an HTML page with inline bootstrap script.
	swaggerCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'"
)

// SecurityHeadersMiddleware sets the response hardening headers. HSTS is only
// sent in production where TLS terminates in front of the API.
func SecurityHeadersMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if production {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if strings.HasPrefix(c.Request.URL.Path, APIBasePath+"/swagger/") {
			h.Set("Content-Security-Policy", swaggerCSP)
		} else {
			h.Set("Content-Security-Policy", apiCSP)
		}

		// Profiles, applications and exports are private to the caller
		if c.GetHeader("Authorization") != "" {
			h.Set("Cache-Control", "no-store")
		}

		c.Next()
	}
}
