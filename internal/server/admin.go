package server

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const adminCookie = "admin_token"

type adminAuth struct {
	username string
	password string
	token    string
}

// Defaults only apply in debug mode; a release build without credentials
// has no way to log in.
func newAdminAuth(username, password string) *adminAuth {
	if gin.Mode() == gin.DebugMode {
		if username == "" {
			username = "admin"
			log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
		if password == "" {
			password = "admin123"
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}
	return &adminAuth{username: username, password: password, token: randomToken()}
}

func (a *adminAuth) check(username, password string) bool {
	if a.username == "" || a.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// Middleware to check admin authentication
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// adminStats combines visitor statistics with the revision count.
func (s *Server) adminStats(ctx context.Context) (*AdminStats, error) {
	stats, err := s.visitors.stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.ContentRevisions, err = s.store.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// Setup all admin routes
func (s *Server) setupAdminRoutes(r *gin.Engine) {
	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		if !s.admin.check(c.PostForm("username"), c.PostForm("password")) {
			log.Printf("Failed admin login attempt from %s", s.visitors.hashIP(c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		// Secure cookie (24 hours)
		c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", false, true)
		log.Printf("Admin login successful from %s", s.visitors.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// Admin logout
	r.POST("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.visitors.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(s.admin.middleware())

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/api/visitors", func(c *gin.Context) {
		visitors, err := s.visitors.recent(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load visitors"})
			return
		}
		if visitors == nil {
			visitors = []VisitorMetric{}
		}
		c.JSON(http.StatusOK, visitors)
	})

	// Privacy compliance: drop records past the retention window
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.visitors.cleanup(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": n})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", s.visitors.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
