package content

import (
	"context"
	"errors"
	"os"
)

// DefaultContent is written on first run so the editor has something to load.
var DefaultContent = []byte(`{
  "logo": "-sys(cry)",
  "typewriter": "systems | cryptography | noise",
  "about": "Most projects here start with a simple idea and turn into a chance to learn something new.",
  "clocks": {
    "since": "1989-01-28T00:00:00",
    "until": "2100-01-28T23:59:59"
  }
}`)

// Seed writes DefaultContent when no content file exists yet. It reports
// whether a file was created.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if _, err := s.Save(ctx, DefaultContent); err != nil {
		return false, err
	}
	return true, nil
}
