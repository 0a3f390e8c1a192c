package server

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS headers for the editor, which may be opened from another origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func visitorTrackingMiddleware(v *visitorLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet || c.Writer.Status() != http.StatusOK {
			return
		}
		p := c.Request.URL.Path
		if !isPageView(p) {
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			return
		}

		go v.track(c.ClientIP(), c.GetHeader("User-Agent"), p)
	}
}

// isPageView reports whether p is an HTML page rather than an API call,
// admin page or asset.
func isPageView(p string) bool {
	for _, prefix := range []string{"/api/", "/admin/", "/images/", "/cms/", "/favicon", "/healthz"} {
		if strings.HasPrefix(p, prefix) {
			return false
		}
	}
	ext := path.Ext(p)
	return ext == "" || ext == ".html"
}
