// Package site builds a deployable copy of the site from its working root.
package site

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zachkp/syscry/internal/config"
	"github.com/otiai10/copy"
)

// ErrDestInsideRoot is returned when the export target would be copied into itself.
var ErrDestInsideRoot = errors.New("export destination is inside the site root")

// editorDir holds the CMS editor, served locally but never published.
const editorDir = "cms"

// Export copies the public site under cfg.Root to dest. Editor files,
// VCS data, secrets and the sqlite database are left out; the current
// content is published as dest/content.json.
func Export(cfg *config.Config, dest string) error {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	out, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}
	if out == root || within(root, out) {
		return ErrDestInsideRoot
	}
	dbPath, err := filepath.Abs(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("resolving database: %w", err)
	}

	skip := func(info os.FileInfo, src, _ string) (bool, error) {
		abs, err := filepath.Abs(src)
		if err != nil {
			return false, err
		}
		if abs == filepath.Join(root, editorDir) || cfg.IsPrivate(abs) {
			return true, nil
		}
		if info.IsDir() && within(abs, dbPath) {
			// Directory holding only the database and its journals.
			return filepath.Dir(dbPath) == abs && abs != root, nil
		}
		return false, nil
	}

	log.Println("Copying", root, "to", out)
	if err := copy.Copy(root, out, copy.Options{Skip: skip}); err != nil {
		return fmt.Errorf("copying site: %w", err)
	}

	src := cfg.ContentPath()
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		log.Printf("No content at %s, skipping content.json", src)
		return nil
	}
	if err := copy.Copy(src, filepath.Join(out, "content.json")); err != nil {
		return fmt.Errorf("publishing content: %w", err)
	}
	return nil
}

func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
