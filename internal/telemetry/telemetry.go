// Package telemetry exposes Prometheus collectors for the scraper.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	placesRequestsTotal *prometheus.CounterVec
	sitesCrawledTotal   *prometheus.CounterVec
	leadsProcessedTotal *prometheus.CounterVec
	localitiesSkipped   prometheus.Counter
	pacingDelaySeconds  prometheus.Histogram
	emailsFoundTotal    *prometheus.CounterVec

	once sync.Once
)

// Init registers the Prometheus collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		placesRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_places_requests_total",
				Help: "Total Places API requests, labeled by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		)

		sitesCrawledTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_sites_crawled_total",
				Help: "Total site crawls, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		leadsProcessedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_processed_total",
				Help: "Total leads processed, labeled by final status.",
			},
			[]string{"status"},
		)

		localitiesSkipped = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "leads_localities_skipped_total",
				Help: "Localities abandoned after exhausting search retries.",
			},
		)

		pacingDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leads_pacing_delay_seconds",
				Help:    "Histogram of waits imposed by request pacing.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
		)

		emailsFoundTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_emails_found_total",
				Help: "Emails discovered during crawls, labeled by classification.",
			},
			[]string{"kind"},
		)
	})
}

// Handler returns an http.Handler exposing the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePlacesRequest records one Places API call.
func ObservePlacesRequest(endpoint, outcome string) {
	if placesRequestsTotal == nil {
		return
	}
	placesRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveSiteCrawl records one site crawl attempt.
func ObserveSiteCrawl(outcome string) {
	if sitesCrawledTotal == nil {
		return
	}
	sitesCrawledTotal.WithLabelValues(outcome).Inc()
}

// ObserveLead records one finished lead by status.
func ObserveLead(status string) {
	if leadsProcessedTotal == nil {
		return
	}
	leadsProcessedTotal.WithLabelValues(status).Inc()
}

// ObserveSkippedLocality records a locality abandoned mid-run.
func ObserveSkippedLocality() {
	if localitiesSkipped == nil {
		return
	}
	localitiesSkipped.Inc()
}

// ObservePacingDelay records a pacing wait.
func ObservePacingDelay(d time.Duration) {
	if pacingDelaySeconds == nil {
		return
	}
	pacingDelaySeconds.Observe(d.Seconds())
}

// ObserveEmailFound records one classified email.
func ObserveEmailFound(kind string) {
	if emailsFoundTotal == nil {
		return
	}
	emailsFoundTotal.WithLabelValues(kind).Inc()
}
