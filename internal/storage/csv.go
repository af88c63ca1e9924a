package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrockmkt/lead-scraper-maps/internal/catalog"
	"github.com/adrockmkt/lead-scraper-maps/internal/lead"
)

var csvHeader = []string{
	"name", "website", "email", "phone", "city",
	"neighborhood", "niche", "score", "status",
}

// Exporter appends finished leads to one of three categorized CSV streams,
// selected by final status.
type Exporter struct {
	dir string
}

// NewExporter creates the output directory if needed.
func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

// Export appends one row to the stream matching the lead's status, writing
// the header first when the file is new.
func (e *Exporter) Export(l *lead.Lead) error {
	path := e.pathFor(l.Status)

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write export header: %w", err)
		}
	}

	row := []string{
		sanitize(l.Name),
		sanitize(l.Website),
		sanitize(l.CorporateEmail),
		sanitize(l.Phone),
		sanitize(l.City),
		sanitize(l.Neighborhood),
		sanitize(l.Niche),
		strconv.Itoa(l.Score),
		string(l.Status),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write export row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

func (e *Exporter) pathFor(status lead.Status) string {
	var name string
	switch status {
	case lead.StatusQualified:
		name = catalog.OutputQualified
	case lead.StatusNoEmail:
		name = catalog.OutputNoEmail
	default:
		name = catalog.OutputDiscarded
	}
	return filepath.Join(e.dir, filepath.Base(name))
}

// sanitize keeps rows single-line: quotes are dropped and newlines collapse
// to spaces before the CSV writer applies its own quoting.
func sanitize(v string) string {
	v = strings.ReplaceAll(v, `"`, "")
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return strings.TrimSpace(v)
}
