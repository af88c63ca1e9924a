package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrockmkt/lead-scraper-maps/internal/lead"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleLead(placeID string) *lead.Lead {
	return &lead.Lead{
		PlaceID:        placeID,
		Name:           "Guincho Rápido",
		Niche:          "guincho",
		City:           "Curitiba",
		Neighborhood:   "Batel",
		Address:        "Av. do Batel, 1868 - Batel, Curitiba - PR",
		Phone:          "(41) 3333-4444",
		Website:        "https://guinchorapido.com.br",
		CorporateEmail: "diretoria@guinchorapido.com.br",
		Rating:         4.7,
		RatingCount:    120,
		Competition:    14,
		Score:          100,
		ScoreReasons:   []string{"has_website", "high_ticket_niche"},
		Status:         lead.StatusQualified,
	}
}

func TestOpenCreatesNestedDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "nested", "leads.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSaveLeadIsWriteOnce(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	exists, err := s.LeadExists(ctx, "place-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.SaveLead(ctx, sampleLead("place-1")))

	exists, err = s.LeadExists(ctx, "place-1")
	require.NoError(t, err)
	assert.True(t, exists)

	// Second save of the same place ID is a silent no-op.
	dup := sampleLead("place-1")
	dup.Name = "Outro Nome"
	require.NoError(t, s.SaveLead(ctx, dup))

	var count int
	require.NoError(t, s.DB.Get(&count, "SELECT COUNT(*) FROM leads WHERE place_id = ?", "place-1"))
	assert.Equal(t, 1, count)

	var name string
	require.NoError(t, s.DB.Get(&name, "SELECT name FROM leads WHERE place_id = ?", "place-1"))
	assert.Equal(t, "Guincho Rápido", name, "first write wins")
}

func TestLeadExistsEmptyID(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	exists, err := s.LeadExists(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSiteCacheGrowsMonotonically(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()
	site := "https://guinchorapido.com.br"

	seen, err := s.SiteCrawled(ctx, site)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, s.MarkSiteCrawled(ctx, site))
	require.NoError(t, s.MarkSiteCrawled(ctx, site)) // idempotent

	seen, err = s.SiteCrawled(ctx, site)
	require.NoError(t, err)
	assert.True(t, seen)

	var count int
	require.NoError(t, s.DB.Get(&count, "SELECT COUNT(*) FROM crawled_sites"))
	assert.Equal(t, 1, count)
}

func TestMarkSiteCrawledEmptyURL(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	require.NoError(t, s.MarkSiteCrawled(context.Background(), ""))

	var count int
	require.NoError(t, s.DB.Get(&count, "SELECT COUNT(*) FROM crawled_sites"))
	assert.Zero(t, count)
}

func TestSaveLeadPersistsAllColumns(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	require.NoError(t, s.SaveLead(context.Background(), sampleLead("place-2")))

	var row leadRow
	require.NoError(t, s.DB.Get(&row,
		`SELECT place_id, name, niche, city, neighborhood, address, phone,
			website, corporate_email, rating, rating_count, competition,
			score, score_reasons, status, created_at
		 FROM leads WHERE place_id = ?`, "place-2"))

	assert.Equal(t, "guincho", row.Niche)
	assert.Equal(t, "Batel", row.Neighborhood)
	assert.Equal(t, "has_website,high_ticket_niche", row.ScoreReasons)
	assert.Equal(t, "qualified", row.Status)
	assert.Equal(t, 14, row.Competition)
	assert.NotEmpty(t, row.CreatedAt)
}
