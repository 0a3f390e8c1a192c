// Package assets resolves static site files and lists editable images.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFound covers both missing files and missing directories.
var ErrNotFound = errors.New("not found")

// DefaultMimeType is used for unknown or missing extensions.
const DefaultMimeType = "application/octet-stream"

var mimeTypes = map[string]string{
	".html":  "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".svg":   "image/svg+xml",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".wasm":  "application/wasm",
}

var (
	imageExt       = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
	responsiveSize = regexp.MustCompile(`-p-\d+\.`)
)

// MimeType infers a content type from the file extension.
func MimeType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return DefaultMimeType
}

// IsResponsiveVariant reports whether name is a generated size variant
// such as hero-p-500.jpg.
func IsResponsiveVariant(name string) bool {
	return responsiveSize.MatchString(name)
}

// ListImages returns the image filenames in dir, minus responsive variants,
// sorted ascending.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading images directory: %w", err)
	}

	images := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !imageExt.MatchString(name) || IsResponsiveVariant(name) {
			continue
		}
		images = append(images, name)
	}
	sort.Strings(images)
	return images, nil
}

// Resolve maps a URL path onto a file below root. "/" and directories map
// to their index.html. Paths that would leave root are reported as missing.
func Resolve(root, urlPath string) (string, error) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		clean = "/index.html"
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	target := filepath.Join(absRoot, filepath.FromSlash(clean))
	if target != absRoot && !strings.HasPrefix(target, absRoot+string(filepath.Separator)) {
		return "", ErrNotFound
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", ErrNotFound
	}
	if info.IsDir() {
		target = filepath.Join(target, "index.html")
		if info, err = os.Stat(target); err != nil || info.IsDir() {
			return "", ErrNotFound
		}
	}
	return target, nil
}
