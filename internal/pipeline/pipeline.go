// Package pipeline drives a scraping run: niche by niche, lead by lead,
// strictly sequential, routing each finished record to the datastore and the
// CSV exports.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/adrockmkt/lead-scraper-maps/internal/catalog"
	"github.com/adrockmkt/lead-scraper-maps/internal/crawler"
	"github.com/adrockmkt/lead-scraper-maps/internal/lead"
	"github.com/adrockmkt/lead-scraper-maps/internal/telemetry"
)

// Collector produces deduplicated leads per niche and enriches them.
type Collector interface {
	CollectNiche(ctx context.Context, niche string) ([]lead.Lead, int, error)
	Enrich(ctx context.Context, l *lead.Lead) error
}

// SiteCrawler mines a business site for email addresses.
type SiteCrawler interface {
	Crawl(ctx context.Context, siteURL string) crawler.Result
}

// Scorer computes the final score and status of a lead.
type Scorer interface {
	Score(l *lead.Lead)
}

// Store is the persistence and run-cache collaborator.
type Store interface {
	LeadExists(ctx context.Context, placeID string) (bool, error)
	SiteCrawled(ctx context.Context, site string) (bool, error)
	MarkSiteCrawled(ctx context.Context, site string) error
	SaveLead(ctx context.Context, l *lead.Lead) error
}

// Exporter appends finished leads to the categorized CSV streams.
type Exporter interface {
	Export(l *lead.Lead) error
}

// Summary carries the run counters. Purely observational; it never changes
// control flow.
type Summary struct {
	Processed         int
	Qualified         int
	NoEmail           int
	Discarded         int
	SkippedLocalities int
}

// Pipeline executes the full run.
type Pipeline struct {
	collector Collector
	crawler   SiteCrawler
	scorer    Scorer
	store     Store
	exporter  Exporter
	logger    *zap.Logger

	niches []string
}

// New constructs a Pipeline over all configured niches.
func New(
	collector Collector,
	siteCrawler SiteCrawler,
	scorer Scorer,
	store Store,
	exporter Exporter,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		collector: collector,
		crawler:   siteCrawler,
		scorer:    scorer,
		store:     store,
		exporter:  exporter,
		logger:    logger,
		niches:    catalog.HighTicketNiches,
	}
}

// Run processes every niche in order. A failed niche or lead is logged and
// skipped; only context cancellation stops the run early.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	for _, niche := range p.niches {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		p.logger.Info("processing niche", zap.String("niche", niche))

		leads, skipped, err := p.collector.CollectNiche(ctx, niche)
		summary.SkippedLocalities += skipped
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			p.logger.Error("niche collection failed, skipping niche",
				zap.String("niche", niche), zap.Error(err))
			continue
		}
		p.logger.Info("niche collected",
			zap.String("niche", niche),
			zap.Int("unique_leads", len(leads)),
			zap.Int("skipped_localities", skipped),
		)

		// The batch size is the competition-density proxy for every lead
		// of this niche.
		competition := len(leads)

		for i := range leads {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			l := leads[i]
			if err := p.processLead(ctx, &l, niche, competition, &summary); err != nil {
				p.logger.Warn("lead skipped",
					zap.String("place_id", l.PlaceID), zap.Error(err))
			}
		}
	}

	p.logger.Info("run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("qualified", summary.Qualified),
		zap.Int("no_email", summary.NoEmail),
		zap.Int("discarded", summary.Discarded),
		zap.Int("skipped_localities", summary.SkippedLocalities),
	)
	return summary, nil
}

// processLead runs one lead through enrich, crawl, score, persist and export.
func (p *Pipeline) processLead(ctx context.Context, l *lead.Lead, niche string, competition int, summary *Summary) error {
	exists, err := p.store.LeadExists(ctx, l.PlaceID)
	if err != nil {
		return fmt.Errorf("existence check: %w", err)
	}
	if exists {
		return nil
	}

	if err := p.collector.Enrich(ctx, l); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// The lead continues with search-stage fields only.
		p.logger.Warn("enrichment failed, continuing un-enriched",
			zap.String("place_id", l.PlaceID), zap.Error(err))
	}

	l.Niche = niche
	l.City = catalog.PrimaryCity
	l.Competition = competition

	if l.Website != "" {
		seen, err := p.store.SiteCrawled(ctx, l.Website)
		if err != nil {
			return fmt.Errorf("site cache check: %w", err)
		}
		if !seen {
			result := p.crawler.Crawl(ctx, l.Website)
			if len(result.Corporate) > 0 {
				l.CorporateEmail = result.Corporate[0]
			}
			// Marked even when the crawl found nothing or the site was
			// unreachable, so a dead site is not retried every run.
			if err := p.store.MarkSiteCrawled(ctx, l.Website); err != nil {
				return fmt.Errorf("mark site crawled: %w", err)
			}
		}
	}

	p.scorer.Score(l)

	if err := p.store.SaveLead(ctx, l); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if err := p.exporter.Export(l); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	summary.Processed++
	telemetry.ObserveLead(string(l.Status))
	switch l.Status {
	case lead.StatusQualified:
		summary.Qualified++
	case lead.StatusNoEmail:
		summary.NoEmail++
	default:
		summary.Discarded++
	}
	return nil
}
