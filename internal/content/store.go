package content

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Zachkp/syscry/internal/db"
)

// ErrNotFound is returned when the content file or a revision does not exist.
var ErrNotFound = errors.New("content not found")

// ParseError reports a request body that is not valid JSON. Its message is
// the decoder's own, which is what the editor shows the user.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Revision is one saved version of content.json.
type Revision struct {
	ID      string          `json:"id"`
	SavedAt time.Time       `json:"saved_at"`
	Size    int             `json:"size"`
	SHA256  string          `json:"sha256"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// Store persists the page content blob. The file on disk is the source of
// truth; the database, when present, keeps a history of every save.
type Store struct {
	path string
	db   *db.DB

	mu  sync.Mutex
	now func() time.Time
}

// NewStore returns a store writing to path. database may be nil, in which
// case no revision history is kept.
func NewStore(path string, database *db.DB) *Store {
	return &Store{path: path, db: database, now: time.Now}
}

// Path returns the content file location.
func (s *Store) Path() string { return s.path }

// Load returns the persisted file verbatim.
func (s *Store) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return data, nil
}

// Save validates body as JSON and overwrites the content file with a
// two-space indented rendering of it. Key order is preserved. Nothing is
// written when body does not parse.
func (s *Store) Save(ctx context.Context, body []byte) (*Revision, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &ParseError{Err: err}
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(body), "", "  "); err != nil {
		return nil, &ParseError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, pretty.Bytes()); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(pretty.Bytes())
	rev := &Revision{
		ID:      ulid.Make().String(),
		SavedAt: s.now().UTC(),
		Size:    pretty.Len(),
		SHA256:  hex.EncodeToString(sum[:]),
	}

	if s.db != nil {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO content_revisions (id, saved_at, size, sha256, body)
			VALUES (?, ?, ?, ?, ?)
		`, rev.ID, rev.SavedAt, rev.Size, rev.SHA256, pretty.Bytes())
		if err != nil {
			// The file is already written; history is best effort.
			return rev, fmt.Errorf("recording revision: %w", err)
		}
	}

	return rev, nil
}

// Revisions lists saved revisions, newest first, without their bodies.
func (s *Store) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, saved_at, size, sha256
		FROM content_revisions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.SavedAt, &r.Size, &r.SHA256); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// Revision returns one revision including its body.
func (s *Store) Revision(ctx context.Context, id string) (*Revision, error) {
	if s.db == nil {
		return nil, ErrNotFound
	}

	var r Revision
	var body []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, saved_at, size, sha256, body
		FROM content_revisions
		WHERE id = ?
	`, id).Scan(&r.ID, &r.SavedAt, &r.Size, &r.SHA256, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading revision %s: %w", id, err)
	}
	r.Body = body
	return &r, nil
}

// Restore saves an earlier revision's body as the current content. The
// restore itself becomes a new revision.
func (s *Store) Restore(ctx context.Context, id string) (*Revision, error) {
	old, err := s.Revision(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, old.Body)
}

// Count returns the number of stored revisions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, nil
	}
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content_revisions").Scan(&n)
	return n, err
}

// writeFileAtomic replaces path so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating content directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".content-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
