package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/Zachkp/syscry/internal/db"
)

// retention is how long visitor records are kept.
const retention = 365 * 24 * time.Hour

// VisitorMetric is one page view with a hashed IP instead of the raw address.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// PathStat counts views of one page.
type PathStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TopPaths         []PathStat      `json:"top_paths"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
	ContentRevisions int64           `json:"content_revisions"`
}

type visitorLog struct {
	db   *db.DB
	salt string
	now  func() time.Time
}

func newVisitorLog(database *db.DB) *visitorLog {
	return &visitorLog{db: database, salt: randomToken(), now: time.Now}
}

func randomToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy (consistent per IP for the process lifetime)
func (v *visitorLog) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + v.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (v *visitorLog) track(ip, userAgent, path string) {
	if err := v.record(context.Background(), ip, userAgent, path); err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

func (v *visitorLog) record(ctx context.Context, ip, userAgent, path string) error {
	_, err := v.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.hashIP(ip), userAgent, path, v.now().UTC())
	return err
}

// cleanup removes visitor records older than the retention window.
func (v *visitorLog) cleanup(ctx context.Context) (int64, error) {
	cutoff := v.now().UTC().Add(-retention)
	result, err := v.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitors: %w", err)
	}
	n, _ := result.RowsAffected()
	if n > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than 12 months", n)
	}
	return n, nil
}

func (v *visitorLog) stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	now := v.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, "SELECT COUNT(*) FROM visitors", nil},
		{&stats.UniqueVisitors, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil},
		{&stats.VisitorsToday, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{startOfDay}},
		{&stats.VisitorsThisWeek, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{now.Add(-7 * 24 * time.Hour)}},
	}
	for _, q := range counts {
		if err := v.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return nil, err
		}
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p PathStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			continue
		}
		stats.TopPaths = append(stats.TopPaths, p)
	}
	rows.Close()

	recent, err := v.recent(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

func (v *visitorLog) recent(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var visitor VisitorMetric
		err := rows.Scan(&visitor.ID, &visitor.HashedIP, &visitor.UserAgent, &visitor.Path, &visitor.Timestamp)
		if err != nil {
			continue
		}
		visitors = append(visitors, visitor)
	}
	return visitors, rows.Err()
}
