package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adrockmkt/lead-scraper-maps/internal/lead"
)

func score(l lead.Lead) lead.Lead {
	New().Score(&l)
	return l
}

func TestScoreAllSignals(t *testing.T) {
	t.Parallel()

	l := score(lead.Lead{
		Niche:          "guincho",
		Website:        "https://guinchorapido.com.br",
		Competition:    14,
		CorporateEmail: "diretoria@guinchorapido.com.br",
		Address:        "Av. do Batel, 1868 - Batel, Curitiba - PR",
	})

	assert.Equal(t, 100, l.Score)
	assert.Equal(t, []string{
		ReasonHasWebsite,
		ReasonHighTicketNiche,
		ReasonHighCompetition,
		ReasonCorporateEmail,
		ReasonPrimeNeighborhood,
	}, l.ScoreReasons)
	assert.Equal(t, lead.StatusQualified, l.Status)
}

func TestScoreThresholdBoundary(t *testing.T) {
	t.Parallel()

	// website(25) + niche(25) + corporate email(20) = 70, exactly at the
	// qualification threshold.
	at := score(lead.Lead{
		Niche:          "guincho",
		Website:        "https://b.biz",
		CorporateEmail: "ceo@b.biz",
	})
	assert.Equal(t, 70, at.Score)
	assert.Equal(t, lead.StatusQualified, at.Status)

	// One signal short of the threshold falls back to the secondary rule.
	below := score(lead.Lead{
		Niche:       "guincho",
		Website:     "https://b.biz",
		Competition: 3,
	})
	assert.Equal(t, 50, below.Score)
	assert.Equal(t, lead.StatusNoEmail, below.Status)
}

func TestScoreStatusDiscarded(t *testing.T) {
	t.Parallel()

	l := score(lead.Lead{Niche: "desentupidora"})
	assert.Equal(t, 25, l.Score)
	assert.Equal(t, lead.StatusDiscarded, l.Status)

	// A corporate email without a website still discards below threshold.
	withEmail := score(lead.Lead{Niche: "desentupidora", CorporateEmail: "x@y.br"})
	assert.Equal(t, 45, withEmail.Score)
	assert.Equal(t, lead.StatusDiscarded, withEmail.Status)
}

func TestScoreMonotonicity(t *testing.T) {
	t.Parallel()

	base := lead.Lead{Niche: "guincho"}
	prev := score(base).Score

	add := []func(*lead.Lead){
		func(l *lead.Lead) { l.Website = "https://b.biz" },
		func(l *lead.Lead) { l.Competition = 10 },
		func(l *lead.Lead) { l.CorporateEmail = "ceo@b.biz" },
		func(l *lead.Lead) { l.Address = "Rua X - Centro, Curitiba" },
	}
	for _, f := range add {
		f(&base)
		got := score(base).Score
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
}

func TestScoreCompetitionThreshold(t *testing.T) {
	t.Parallel()

	low := score(lead.Lead{Niche: "guincho", Competition: 9})
	high := score(lead.Lead{Niche: "guincho", Competition: 10})
	assert.NotContains(t, low.ScoreReasons, ReasonHighCompetition)
	assert.Contains(t, high.ScoreReasons, ReasonHighCompetition)
	assert.Equal(t, low.Score+20, high.Score)
}
