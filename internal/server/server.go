package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/syscry/internal/config"
	"github.com/Zachkp/syscry/internal/content"
	"github.com/Zachkp/syscry/internal/db"
	"github.com/Zachkp/syscry/internal/live"
)

// Server is the local content-management server for the site.
type Server struct {
	cfg      *config.Config
	store    *content.Store
	visitors *visitorLog
	hub      *live.Hub
	admin    *adminAuth
	engine   *gin.Engine
}

// New wires the routes. database and hub may be nil; without a database
// there is no visitor tracking, admin area or revision history, and
// without a hub /api/live is not served.
func New(cfg *config.Config, store *content.Store, database *db.DB, hub *live.Hub) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s := &Server{
		cfg:   cfg,
		store: store,
		hub:   hub,
	}
	if database != nil {
		s.visitors = newVisitorLog(database)
		s.admin = newAdminAuth(cfg.AdminUsername, cfg.AdminPassword)
	}

	r := gin.Default()
	r.Use(corsMiddleware())
	if s.visitors != nil {
		r.Use(visitorTrackingMiddleware(s.visitors))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API endpoints
	r.GET("/api/images", s.listImages)
	r.POST("/api/content", s.saveContent)
	r.GET("/api/content/revisions", s.listRevisions)
	r.GET("/api/content/revisions/:id", s.getRevision)
	r.POST("/api/content/revisions/:id/restore", s.restoreRevision)
	if hub != nil {
		r.GET("/api/live", gin.WrapF(hub.ServeWS))
	}

	r.GET("/content.json", s.serveContent)

	if s.admin != nil {
		s.setupAdminRoutes(r)
	}

	// Everything else is a static file below the site root.
	r.NoRoute(s.serveStatic)

	s.engine = r
	return s
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("syscry CMS server")
		log.Printf("  Editor:  http://localhost:%s/cms/editor.html", s.cfg.Port)
		log.Printf("  Preview: http://localhost:%s/", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listening on :%s: %w", s.cfg.Port, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
