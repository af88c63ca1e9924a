// Package storage persists leads and run caches in a local SQLite database
// and appends finished leads to categorized CSV exports.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/adrockmkt/lead-scraper-maps/internal/lead"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	place_id TEXT UNIQUE,
	name TEXT,
	niche TEXT,
	city TEXT,
	neighborhood TEXT,
	address TEXT,
	phone TEXT,
	website TEXT,
	corporate_email TEXT,
	rating REAL,
	rating_count INTEGER,
	competition INTEGER,
	score INTEGER,
	score_reasons TEXT,
	status TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS crawled_sites (
	site TEXT PRIMARY KEY,
	last_crawled TEXT NOT NULL
);
`

// Store is the SQLite-backed datastore. It doubles as the run cache: the set
// of known place IDs and the set of already-crawled sites both live here and
// only ever grow.
type Store struct {
	DB *sqlx.DB
}

// Open connects to (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	// modernc sqlite DSN; sqlite wants a single writer.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close shuts down the connection pool.
func (s *Store) Close() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// LeadExists reports whether a place ID was persisted by this or any earlier
// run. An empty ID never exists.
func (s *Store) LeadExists(ctx context.Context, placeID string) (bool, error) {
	if placeID == "" {
		return false, nil
	}
	var one int
	err := s.DB.GetContext(ctx, &one, "SELECT 1 FROM leads WHERE place_id = ? LIMIT 1", placeID)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("query lead existence: %w", err)
	}
	return true, nil
}

// SiteCrawled reports whether the site URL was already visited.
func (s *Store) SiteCrawled(ctx context.Context, site string) (bool, error) {
	if site == "" {
		return false, nil
	}
	var one int
	err := s.DB.GetContext(ctx, &one, "SELECT 1 FROM crawled_sites WHERE site = ? LIMIT 1", site)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("query site cache: %w", err)
	}
	return true, nil
}

// MarkSiteCrawled records a site visit. Idempotent; marking an already-known
// site is a no-op.
func (s *Store) MarkSiteCrawled(ctx context.Context, site string) error {
	if site == "" {
		return nil
	}
	_, err := s.DB.ExecContext(ctx,
		"INSERT OR IGNORE INTO crawled_sites (site, last_crawled) VALUES (?, ?)",
		site, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("mark site crawled: %w", err)
	}
	return nil
}

// SaveLead persists a finished lead. Records are write-once by place ID:
// saving a known ID is silently ignored, there is no update or merge path.
func (s *Store) SaveLead(ctx context.Context, l *lead.Lead) error {
	row := leadRow{
		PlaceID:        l.PlaceID,
		Name:           l.Name,
		Niche:          l.Niche,
		City:           l.City,
		Neighborhood:   l.Neighborhood,
		Address:        l.Address,
		Phone:          l.Phone,
		Website:        l.Website,
		CorporateEmail: l.CorporateEmail,
		Rating:         l.Rating,
		RatingCount:    l.RatingCount,
		Competition:    l.Competition,
		Score:          l.Score,
		ScoreReasons:   strings.Join(l.ScoreReasons, ","),
		Status:         string(l.Status),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	const query = `
		INSERT OR IGNORE INTO leads (
			place_id, name, niche, city, neighborhood, address, phone,
			website, corporate_email, rating, rating_count, competition,
			score, score_reasons, status, created_at
		) VALUES (
			:place_id, :name, :niche, :city, :neighborhood, :address, :phone,
			:website, :corporate_email, :rating, :rating_count, :competition,
			:score, :score_reasons, :status, :created_at
		)`
	if _, err := s.DB.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save lead %s: %w", l.PlaceID, err)
	}
	return nil
}

// leadRow is the persisted projection of a lead.
type leadRow struct {
	PlaceID        string  `db:"place_id"`
	Name           string  `db:"name"`
	Niche          string  `db:"niche"`
	City           string  `db:"city"`
	Neighborhood   string  `db:"neighborhood"`
	Address        string  `db:"address"`
	Phone          string  `db:"phone"`
	Website        string  `db:"website"`
	CorporateEmail string  `db:"corporate_email"`
	Rating         float64 `db:"rating"`
	RatingCount    int     `db:"rating_count"`
	Competition    int     `db:"competition"`
	Score          int     `db:"score"`
	ScoreReasons   string  `db:"score_reasons"`
	Status         string  `db:"status"`
	CreatedAt      string  `db:"created_at"`
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
