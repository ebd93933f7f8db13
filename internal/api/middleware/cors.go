package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// Conversion metadata headers sent with converted audio.
const (
	HeaderConversionMode     = "X-Conversion-Mode"
	HeaderConversionBackend  = "X-Conversion-Backend"
	HeaderConversionFallback = "X-Conversion-Fallback"
)

// CORSConfig lists which browser origins may call the voice API.
type CORSConfig struct {
	AllowOrigins []string
	MaxAge       int
}

// DefaultCORSConfig allows the given origins, or any origin when none are listed.
func DefaultCORSConfig(origins ...string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{AllowOrigins: origins, MaxAge: 3600}
}

var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}, ", ")
	// Browsers send multipart uploads with Content-Type and tokens with Authorization.
	corsAllowHeaders  = strings.Join([]string{"Authorization", "Content-Type", RequestIDHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{
		RequestIDHeader,
		"Content-Disposition",
		HeaderConversionMode,
		HeaderConversionBackend,
		HeaderConversionFallback,
	}, ", ")
)

// CORS answers preflights and tags responses for allowed origins. A preflight from an
// origin outside the list gets 403; plain requests pass through without CORS headers.
func CORS(config CORSConfig) gin.HandlerFunc {
	wildcard := lo.Contains(config.AllowOrigins, "*")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		preflight := c.Request.Method == http.MethodOptions

		switch {
		case origin == "":
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		case lo.Contains(config.AllowOrigins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		default:
			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		if preflight {
			c.Header("Access-Control-Allow-Methods", corsMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			if config.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", maxAge)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
