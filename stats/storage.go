// Package stats records usage telemetry (visitors, analysis requests,
// load times) in a local SQLite database. Analysis results themselves
// are never persisted; only ambient counters live here.
package stats

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const dbFileName = "mcm-analyzer-stats.db"

const schema = `
CREATE TABLE IF NOT EXISTS monthly_stats (
	month              TEXT PRIMARY KEY,
	analysis_requests  INTEGER NOT NULL DEFAULT 0,
	error_count        INTEGER NOT NULL DEFAULT 0,
	total_load_time_ms REAL NOT NULL DEFAULT 0,
	last_updated       TIMESTAMP
);

CREATE TABLE IF NOT EXISTS visitors (
	ip         TEXT PRIMARY KEY,
	last_visit TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS popular_urls (
	url   TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0
);
`

// MonthlyStats aggregates one calendar month of analyzer usage.
type MonthlyStats struct {
	Month            string    `json:"month"`
	AnalysisRequests int       `json:"analysis_requests"`
	ErrorCount       int       `json:"error_count"`
	TotalLoadTimeMS  float64   `json:"total_load_time_ms"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Storage handles persistent storage of usage statistics.
type Storage struct {
	db   *sql.DB
	path string
}

// NewStorage opens (or creates) the statistics database under dataDir.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *Storage) Path() string { return s.path }

func currentMonth() string {
	return time.Now().Format("2006-01")
}

// TrackVisitor records a visitor's latest appearance.
func (s *Storage) TrackVisitor(ip string) error {
	_, err := s.db.Exec(`
		INSERT INTO visitors (ip, last_visit) VALUES (?, ?)
		ON CONFLICT(ip) DO UPDATE SET last_visit = excluded.last_visit`,
		ip, time.Now())
	return err
}

// cleanURL reduces an analyzed URL to scheme://host/path and drops our
// own API URLs so the popularity table only holds real targets.
func cleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	clean := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		clean += u.Path
	}
	return strings.TrimSuffix(clean, "/")
}

// TrackAnalysis records one analysis request against the current
// month's aggregates.
func (s *Storage) TrackAnalysis(targetURL string, loadTimeMS float64, hasError bool) error {
	errCount := 0
	if hasError {
		errCount = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO monthly_stats (month, analysis_requests, error_count, total_load_time_ms, last_updated)
		VALUES (?, 1, ?, ?, ?)
		ON CONFLICT(month) DO UPDATE SET
			analysis_requests = analysis_requests + 1,
			error_count = error_count + excluded.error_count,
			total_load_time_ms = total_load_time_ms + excluded.total_load_time_ms,
			last_updated = excluded.last_updated`,
		currentMonth(), errCount, loadTimeMS, time.Now())
	if err != nil {
		return err
	}

	if cleaned := cleanURL(targetURL); cleaned != "" {
		_, err = s.db.Exec(`
			INSERT INTO popular_urls (url, count) VALUES (?, 1)
			ON CONFLICT(url) DO UPDATE SET count = count + 1`,
			cleaned)
	}
	return err
}

// UniqueVisitors24h counts visitors seen in the last 24 hours.
func (s *Storage) UniqueVisitors24h() (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM visitors WHERE last_visit > ?",
		time.Now().Add(-24*time.Hour),
	).Scan(&count)
	return count, err
}

// CurrentMonthStats returns the aggregates for the current month; a
// zero value when no requests were recorded yet.
func (s *Storage) CurrentMonthStats() (MonthlyStats, error) {
	stats := MonthlyStats{Month: currentMonth()}
	err := s.db.QueryRow(`
		SELECT analysis_requests, error_count, total_load_time_ms, last_updated
		FROM monthly_stats WHERE month = ?`, stats.Month,
	).Scan(&stats.AnalysisRequests, &stats.ErrorCount, &stats.TotalLoadTimeMS, &stats.LastUpdated)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	return stats, err
}

// PopularURLs returns the n most-analyzed URLs, most popular first.
func (s *Storage) PopularURLs(n int) (map[string]int, error) {
	rows, err := s.db.Query(
		"SELECT url, count FROM popular_urls ORDER BY count DESC, url LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int, n)
	for rows.Next() {
		var u string
		var count int
		if err := rows.Scan(&u, &count); err != nil {
			return nil, err
		}
		result[u] = count
	}
	return result, rows.Err()
}

// Cleanup drops monthly aggregates older than the current and previous
// month.
func (s *Storage) Cleanup() error {
	now := time.Now()
	current := now.Format("2006-01")
	previous := now.AddDate(0, -1, 0).Format("2006-01")

	_, err := s.db.Exec(
		"DELETE FROM monthly_stats WHERE month NOT IN (?, ?)", current, previous)
	return err
}

// GetStatistics returns the summary view served by the statistics
// endpoint. Popular URLs are only included in development mode.
func (s *Storage) GetStatistics(devMode bool) map[string]any {
	result := make(map[string]any)

	if visitors, err := s.UniqueVisitors24h(); err == nil {
		result["uniqueVisitors24h"] = visitors
	}

	if month, err := s.CurrentMonthStats(); err == nil {
		result["totalRequests"] = month.AnalysisRequests
		errorRate := 0.0
		averageLoadTime := 0.0
		if month.AnalysisRequests > 0 {
			errorRate = float64(month.ErrorCount) / float64(month.AnalysisRequests) * 100
			averageLoadTime = month.TotalLoadTimeMS / float64(month.AnalysisRequests)
		}
		result["errorRate"] = errorRate
		result["averageLoadTime"] = averageLoadTime
	}

	if devMode {
		if popular, err := s.PopularURLs(5); err == nil {
			result["popularUrls"] = popular
		}
	}

	return result
}

// Shutdown closes the underlying database.
func (s *Storage) Shutdown() error {
	return s.db.Close()
}
