// Package places implements the search and enrichment client for the Google
// Places API: paginated text search across niche/locality queries,
// deduplication by place ID and detail lookups restricted to a minimal field
// set.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/adrockmkt/lead-scraper-maps/internal/catalog"
	"github.com/adrockmkt/lead-scraper-maps/internal/config"
	"github.com/adrockmkt/lead-scraper-maps/internal/lead"
	"github.com/adrockmkt/lead-scraper-maps/internal/telemetry"
)

const (
	defaultTextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultDetailsURL    = "https://maps.googleapis.com/maps/api/place/details/json"

	language = "pt-BR"
	region   = "br"
)

// Client talks to the Places API with bounded retries and call pacing.
type Client struct {
	cfg        config.PlacesConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	// Endpoint URLs, overridable in tests.
	textSearchURL string
	detailsURL    string
}

// NewClient builds a Client. The limiter enforces the configured inter-call
// delay across text search and details requests alike.
func NewClient(cfg config.PlacesConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:           cfg,
		httpClient:    &http.Client{Timeout: cfg.Timeout()},
		limiter:       rate.NewLimiter(rate.Every(cfg.RequestDelay()), 1),
		logger:        logger,
		textSearchURL: defaultTextSearchURL,
		detailsURL:    defaultDetailsURL,
	}
}

// apiError is a non-OK answer from the Places API, either at the HTTP layer or
// in the body status field.
type apiError struct {
	endpoint   string
	httpStatus int
	status     string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("places %s: http %d status %q", e.endpoint, e.httpStatus, e.status)
}

// retryable distinguishes rate limiting and server trouble from permanent
// client errors.
func (e *apiError) retryable() bool {
	if e.httpStatus >= 500 || e.httpStatus == http.StatusTooManyRequests {
		return true
	}
	return e.status == "OVER_QUERY_LIMIT"
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var aerr *apiError
	if errors.As(err, &aerr) {
		return aerr.retryable()
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr)
}

type textSearchResponse struct {
	Results       []searchResult `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message"`
}

type searchResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Types            []string `json:"types"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
}

type detailsResponse struct {
	Result detailsResult `json:"result"`
	Status string        `json:"status"`
}

type detailsResult struct {
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
	Geometry             struct {
		Location lead.Geometry `json:"location"`
	} `json:"geometry"`
	AddressComponents []lead.AddressComponent `json:"address_components"`
}

// textSearch issues one text-search request. A continuation token needs time
// to activate on the provider side, so tokenized requests wait the configured
// activation delay first; skipping that wait yields empty or erroneous pages.
func (c *Client) textSearch(ctx context.Context, query, pageToken string) (*textSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", language)
	params.Set("region", region)
	params.Set("key", c.cfg.APIKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
		if err := sleepCtx(ctx, c.cfg.PageTokenDelay()); err != nil {
			return nil, err
		}
	}

	var resp textSearchResponse
	if err := c.getJSON(ctx, "textsearch", c.textSearchURL, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CollectLocality pages through the text search for one niche/locality scope
// and normalizes every raw result. Pagination stops at the configured page cap
// even if the provider keeps returning continuation tokens.
func (c *Client) CollectLocality(ctx context.Context, niche, city, neighborhood string) ([]lead.Lead, error) {
	query := fmt.Sprintf("%s %s %s", niche, city, catalog.State)
	if neighborhood != "" {
		query = fmt.Sprintf("%s %s, %s %s", niche, neighborhood, city, catalog.State)
	}

	var out []lead.Lead
	pageToken := ""
	for page := 0; page < c.cfg.MaxPages; page++ {
		resp, err := c.textSearch(ctx, query, pageToken)
		if err != nil {
			return nil, fmt.Errorf("text search %q page %d: %w", query, page, err)
		}
		for _, item := range resp.Results {
			out = append(out, lead.Lead{
				PlaceID:     item.PlaceID,
				Name:        item.Name,
				Categories:  item.Types,
				Address:     item.FormattedAddress,
				Rating:      item.Rating,
				RatingCount: item.UserRatingsTotal,
				OriginQuery: query,
			})
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

// CollectNiche searches the niche across every primary-city neighborhood and
// every additional city, then deduplicates by place ID keeping the first
// occurrence. A locality whose search fails is logged, counted and skipped so
// one bad slice does not abort the niche; the skipped count is returned for
// the run summary.
func (c *Client) CollectNiche(ctx context.Context, niche string) ([]lead.Lead, int, error) {
	type locality struct {
		city         string
		neighborhood string
	}
	localities := make([]locality, 0, len(catalog.CuritibaNeighborhoods)+len(catalog.AdditionalCities))
	for _, n := range catalog.CuritibaNeighborhoods {
		localities = append(localities, locality{city: catalog.PrimaryCity, neighborhood: n})
	}
	for _, city := range catalog.AdditionalCities {
		localities = append(localities, locality{city: city})
	}

	var collected []lead.Lead
	skipped := 0
	for _, loc := range localities {
		c.logger.Info("searching locality",
			zap.String("niche", niche),
			zap.String("city", loc.city),
			zap.String("neighborhood", loc.neighborhood),
		)
		results, err := c.CollectLocality(ctx, niche, loc.city, loc.neighborhood)
		if err != nil {
			if ctx.Err() != nil {
				return nil, skipped, ctx.Err()
			}
			c.logger.Warn("locality search failed, skipping",
				zap.String("niche", niche),
				zap.String("city", loc.city),
				zap.String("neighborhood", loc.neighborhood),
				zap.Error(err),
			)
			telemetry.ObserveSkippedLocality()
			skipped++
			continue
		}
		collected = append(collected, results...)
	}

	seen := make(map[string]struct{}, len(collected))
	unique := make([]lead.Lead, 0, len(collected))
	for _, l := range collected {
		if l.PlaceID == "" {
			continue
		}
		if _, ok := seen[l.PlaceID]; ok {
			continue
		}
		seen[l.PlaceID] = struct{}{}
		unique = append(unique, l)
	}
	return unique, skipped, nil
}

// Enrich merges the details payload (phone, website, geometry, address
// components) into the lead and derives its neighborhood from the sublocality
// component. A lead without a place ID is returned unchanged.
func (c *Client) Enrich(ctx context.Context, l *lead.Lead) error {
	if l.PlaceID == "" {
		return nil
	}

	params := url.Values{}
	params.Set("place_id", l.PlaceID)
	params.Set("fields", strings.Join(catalog.DetailsFields, ","))
	params.Set("language", language)
	params.Set("key", c.cfg.APIKey)

	var resp detailsResponse
	if err := c.getJSON(ctx, "details", c.detailsURL, params, &resp); err != nil {
		return fmt.Errorf("place details %s: %w", l.PlaceID, err)
	}

	l.Phone = resp.Result.FormattedPhoneNumber
	l.Website = resp.Result.Website
	if resp.Result.Geometry.Location != (lead.Geometry{}) {
		loc := resp.Result.Geometry.Location
		l.Location = &loc
	}
	l.AddressComponents = resp.Result.AddressComponents
	if l.Neighborhood == "" {
		l.Neighborhood = l.Sublocality()
	}
	return nil
}

// getJSON performs one paced, retried GET. Transient failures (network, 5xx,
// rate limit) retry with fixed backoff up to the configured attempt bound;
// everything else fails immediately.
func (c *Client) getJSON(ctx context.Context, endpoint, baseURL string, params url.Values, out any) error {
	attempts := c.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.cfg.RetryBackoff()); err != nil {
				return err
			}
		}

		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("pacing wait: %w", err)
		}
		if waited := time.Since(waitStart); waited > time.Millisecond {
			telemetry.ObservePacingDelay(waited)
		}

		lastErr = c.doOnce(ctx, endpoint, baseURL, params, out)
		if lastErr == nil {
			telemetry.ObservePlacesRequest(endpoint, "ok")
			return nil
		}
		telemetry.ObservePlacesRequest(endpoint, "error")
		if !shouldRetry(lastErr) {
			return lastErr
		}
		c.logger.Warn("places request failed, retrying",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	return fmt.Errorf("retries exhausted: %w", lastErr)
}

func (c *Client) doOnce(ctx context.Context, endpoint, baseURL string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return &apiError{endpoint: endpoint, httpStatus: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if status := bodyStatus(out); status != "" && status != "OK" && status != "ZERO_RESULTS" {
		return &apiError{endpoint: endpoint, httpStatus: resp.StatusCode, status: status}
	}
	return nil
}

// bodyStatus pulls the Places status field out of a decoded response.
func bodyStatus(out any) string {
	switch r := out.(type) {
	case *textSearchResponse:
		return r.Status
	case *detailsResponse:
		return r.Status
	default:
		return ""
	}
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
