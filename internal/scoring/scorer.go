// Package scoring computes the 0-100 lead quality score and the final status.
package scoring

import (
	"github.com/adrockmkt/lead-scraper-maps/internal/catalog"
	"github.com/adrockmkt/lead-scraper-maps/internal/lead"
)

// Rule names recorded in a lead's ScoreReasons, in evaluation order.
const (
	ReasonHasWebsite        = "has_website"
	ReasonHighTicketNiche   = "high_ticket_niche"
	ReasonHighCompetition   = "high_competition"
	ReasonCorporateEmail    = "corporate_email"
	ReasonPrimeNeighborhood = "prime_neighborhood"
)

// Scorer applies the fixed additive rubric. It is stateless; the zero value is
// ready to use.
type Scorer struct{}

// New returns a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score fills l.Score, l.ScoreReasons and l.Status. It is a deterministic
// function of the lead's fields and is called exactly once per lead.
//
// The niche rule fires for every lead because the loop assigns a niche before
// scoring; it is kept as a deliberate base score for the fixed high-ticket
// niche set.
func (s *Scorer) Score(l *lead.Lead) {
	total := 0
	reasons := []string{}

	if l.Website != "" {
		total += catalog.ScoreHasWebsite
		reasons = append(reasons, ReasonHasWebsite)
	}
	if l.Niche != "" {
		total += catalog.ScoreHighTicketNiche
		reasons = append(reasons, ReasonHighTicketNiche)
	}
	if l.Competition >= catalog.CompetitionThreshold {
		total += catalog.ScoreHighCompetition
		reasons = append(reasons, ReasonHighCompetition)
	}
	if l.CorporateEmail != "" {
		total += catalog.ScoreCorporateEmail
		reasons = append(reasons, ReasonCorporateEmail)
	}
	if catalog.InPrimeNeighborhood(l.Address) {
		total += catalog.ScorePrimeNeighborhood
		reasons = append(reasons, ReasonPrimeNeighborhood)
	}

	// Guards against future weight miscalibration.
	if total > 100 {
		total = 100
	}

	l.Score = total
	l.ScoreReasons = reasons

	switch {
	case total >= catalog.QualificationThreshold:
		l.Status = lead.StatusQualified
	case l.Website != "" && l.CorporateEmail == "":
		l.Status = lead.StatusNoEmail
	default:
		l.Status = lead.StatusDiscarded
	}
}
