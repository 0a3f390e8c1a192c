package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/syscry/internal/assets"
	"github.com/Zachkp/syscry/internal/content"
)

// maxContentBytes bounds a single content save.
const maxContentBytes = 10 << 20

// Get all images except responsive variants (-p-500, -p-800, etc.)
func (s *Server) listImages(c *gin.Context) {
	images, err := assets.ListImages(s.cfg.ImagesPath())
	if err != nil {
		log.Printf("Error listing images: %v", err)
		c.String(http.StatusInternalServerError, "Error reading images")
		return
	}
	c.JSON(http.StatusOK, images)
}

func (s *Server) saveContent(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxContentBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rev, err := s.store.Save(c.Request.Context(), body)
	if err != nil {
		var perr *content.ParseError
		switch {
		case errors.As(err, &perr):
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		case rev == nil:
			log.Printf("Error saving content: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		default:
			// Written, but the history row failed.
			log.Printf("Content saved without revision: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) serveContent(c *gin.Context) {
	data, err := s.store.Load()
	if errors.Is(err, content.ErrNotFound) {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		log.Printf("Error reading content: %v", err)
		c.String(http.StatusInternalServerError, "Error reading content")
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) listRevisions(c *gin.Context) {
	revs, err := s.store.Revisions(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if revs == nil {
		revs = []content.Revision{}
	}
	c.JSON(http.StatusOK, revs)
}

func (s *Server) getRevision(c *gin.Context) {
	rev, err := s.store.Revision(c.Request.Context(), c.Param("id"))
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Revision not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (s *Server) restoreRevision(c *gin.Context) {
	id := c.Param("id")
	rev, err := s.store.Restore(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Revision not found"})
		return
	}
	if err != nil && rev == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Content restored from revision %s", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "revision": rev.ID})
}

// Static files
func (s *Server) serveStatic(c *gin.Context) {
	path, err := assets.Resolve(s.cfg.Root, c.Request.URL.Path)
	if err != nil || s.cfg.IsPrivate(path) {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	c.Data(http.StatusOK, assets.MimeType(path), data)
}
