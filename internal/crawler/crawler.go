// Package crawler implements the lightweight site crawl: the home page plus a
// bounded set of contact-like links, mined for email addresses. It is not a
// general crawler; page bodies are transient and only classified emails
// survive.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/adrockmkt/lead-scraper-maps/internal/catalog"
	"github.com/adrockmkt/lead-scraper-maps/internal/config"
	"github.com/adrockmkt/lead-scraper-maps/internal/emailclass"
	"github.com/adrockmkt/lead-scraper-maps/internal/telemetry"
)

// emailPattern is deliberately permissive; classification filters the noise.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Result aggregates the emails found in one site visit, already classified.
// Functional addresses count as corporate for pipeline purposes.
type Result struct {
	Corporate []string
	Generic   []string
}

// Crawler fetches sites with the configured user agent, bounded retries and
// paced sub-page requests.
type Crawler struct {
	cfg     config.CrawlerConfig
	base    *colly.Collector
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New builds a Crawler. The user agent is an explicit configuration value, not
// shared mutable state.
func New(cfg config.CrawlerConfig, logger *zap.Logger) *Crawler {
	base := colly.NewCollector(colly.Async(false))
	base.UserAgent = cfg.UserAgent
	base.IgnoreRobotsTxt = true
	base.SetRequestTimeout(cfg.Timeout())

	return &Crawler{
		cfg:     cfg,
		base:    base,
		limiter: rate.NewLimiter(rate.Every(cfg.CrawlDelay()), 1),
		logger:  logger,
	}
}

// NormalizeSiteURL prepends https when the scheme is missing and strips the
// trailing slash so the site cache keys stay stable.
func NormalizeSiteURL(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	return strings.TrimRight(raw, "/")
}

// Crawl visits the site's home page and its contact-like links, extracts and
// classifies every unique email. A fetch failure makes the site untreated,
// never an error for the caller: the empty Result is returned.
func (c *Crawler) Crawl(ctx context.Context, siteURL string) Result {
	var result Result
	if siteURL == "" {
		return result
	}
	siteURL = NormalizeSiteURL(siteURL)

	body, links, err := c.fetch(ctx, siteURL, true)
	if err != nil {
		c.logger.Debug("site unreachable", zap.String("site", siteURL), zap.Error(err))
		telemetry.ObserveSiteCrawl("unreachable")
		return result
	}

	emails := emailPattern.FindAllString(string(body), -1)

	for _, link := range c.contactLinks(links) {
		if err := c.limiter.Wait(ctx); err != nil {
			break
		}
		subBody, _, err := c.fetch(ctx, link, false)
		if err != nil {
			// A dead contact page is not worth reporting.
			continue
		}
		emails = append(emails, emailPattern.FindAllString(string(subBody), -1)...)
	}

	for _, email := range uniqueLower(emails) {
		kind := emailclass.Classify(email)
		telemetry.ObserveEmailFound(string(kind))
		if kind == emailclass.KindGeneric {
			result.Generic = append(result.Generic, email)
			continue
		}
		result.Corporate = append(result.Corporate, email)
	}

	telemetry.ObserveSiteCrawl("crawled")
	return result
}

// contactLinks keeps hyperlinks whose href hints at a contact or about page,
// deduplicated and capped to avoid pathological sites.
func (c *Crawler) contactLinks(links []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, link := range links {
		lower := strings.ToLower(link)
		if !strings.HasPrefix(lower, "http") {
			continue
		}
		if !containsAny(lower, catalog.ContactLinkTokens) {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, link)
		if len(out) >= c.cfg.MaxContactLinks {
			break
		}
	}
	return out
}

// fetch performs one retried GET; wantLinks additionally collects the page's
// hyperlinks resolved to absolute URLs.
func (c *Crawler) fetch(ctx context.Context, pageURL string, wantLinks bool) ([]byte, []string, error) {
	attempts := c.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.cfg.RetryBackoff()); err != nil {
				return nil, nil, err
			}
		}
		body, links, err := c.doFetch(ctx, pageURL, wantLinks)
		if err == nil {
			return body, links, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
	}
	return nil, nil, fmt.Errorf("fetch %s: %w", pageURL, lastErr)
}

func (c *Crawler) doFetch(ctx context.Context, pageURL string, wantLinks bool) ([]byte, []string, error) {
	collector := c.base.Clone()

	var (
		body     []byte
		links    []string
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	if wantLinks {
		collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
			if abs := e.Request.AbsoluteURL(e.Attr("href")); abs != "" {
				links = append(links, abs)
			}
		})
	}
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, nil, fmt.Errorf("visit failed: %w", err)
		}
		if fetchErr != nil {
			return nil, nil, fmt.Errorf("response failed: %w", fetchErr)
		}
		return body, links, nil
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// uniqueLower lowercases and deduplicates, returning a sorted slice so crawl
// results are deterministic.
func uniqueLower(emails []string) []string {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[strings.ToLower(e)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
