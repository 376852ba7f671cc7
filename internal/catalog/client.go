// Package catalog is a client for the public iTunes Search and Lookup API.
// Every request passes through a shared pacing Gate.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/ports"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	// DefaultBaseURL is the public catalog host.
	DefaultBaseURL = "https://itunes.apple.com"
	// DefaultRequestTimeout bounds the wait for response headers.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultResourceTimeout bounds the whole exchange including the body.
	DefaultResourceTimeout = 60 * time.Second
	// DefaultRegion is used when a caller passes an empty region.
	DefaultRegion = "us"
	// DefaultSearchLimit applies when a caller passes a non-positive limit.
	DefaultSearchLimit = 25
	// MaxSearchLimit is the largest limit the API honours.
	MaxSearchLimit = 200

	lookupChunkSize = 100
	maxBodyBytes    = 8 << 20
)

// Options configures a Client. Zero values take the defaults above.
type Options struct {
	BaseURL         string
	RequestTimeout  time.Duration
	ResourceTimeout time.Duration
	Gate            *Gate
	HTTPClient      *http.Client
	UserAgent       string
}

// Client talks to the catalog API.
type Client struct {
	baseURL   string
	http      *http.Client
	gate      *Gate
	userAgent string
}

var _ ports.Catalog = (*Client)(nil)

// New builds a client. Callers that share one process should share one Gate.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ResourceTimeout <= 0 {
		opts.ResourceTimeout = DefaultResourceTimeout
	}
	if opts.Gate == nil {
		opts.Gate = NewGate(DefaultMinInterval)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := cleanhttp.DefaultPooledTransport()
		transport.ResponseHeaderTimeout = opts.RequestTimeout
		httpClient = &http.Client{Transport: transport, Timeout: opts.ResourceTimeout}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "appwish"
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		gate:      opts.Gate,
		userAgent: opts.UserAgent,
	}
}

// Lookup fetches one app by id.
func (c *Client) Lookup(ctx context.Context, id int64, region string) (domain.CatalogItem, error) {
	if id <= 0 {
		return domain.CatalogItem{}, fmt.Errorf("%w: app id must be positive, got %d", domain.ErrInvalidInput, id)
	}
	items, err := c.lookup(ctx, []int64{id}, region)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.CatalogItem{}, fmt.Errorf("catalog lookup %d: %w", id, ErrNotFound)
}

// LookupMany fetches several apps, in input order. Ids the catalog does not
// know are left out. Empty input makes no request.
func (c *Client) LookupMany(ctx context.Context, ids []int64, region string) ([]domain.CatalogItem, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: app id must be positive, got %d", domain.ErrInvalidInput, id)
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return []domain.CatalogItem{}, nil
	}

	byID := make(map[int64]domain.CatalogItem, len(unique))
	for start := 0; start < len(unique); start += lookupChunkSize {
		end := min(start+lookupChunkSize, len(unique))
		items, err := c.lookup(ctx, unique[start:end], region)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		for _, item := range items {
			byID[item.ID] = item
		}
	}
	out := make([]domain.CatalogItem, 0, len(byID))
	for _, id := range unique {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *Client) lookup(ctx context.Context, ids []int64, region string) ([]domain.CatalogItem, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{}
	q.Set("id", strings.Join(parts, ","))
	q.Set("country", normalizeRegion(region))
	env, err := c.get(ctx, "lookup", q)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CatalogItem, 0, len(env.Results))
	for _, r := range env.Results {
		if r.TrackID <= 0 {
			continue
		}
		item, err := r.toItem()
		if err != nil {
			return nil, fmt.Errorf("catalog lookup %s: %w", q.Get("id"), err)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog lookup %s: %w", q.Get("id"), ErrNotFound)
	}
	return items, nil
}

// Search runs a free-text query, de-duplicated by id and capped at limit.
func (c *Client) Search(ctx context.Context, term, region string, limit int) ([]domain.CatalogItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	q := url.Values{}
	q.Set("term", term)
	q.Set("country", normalizeRegion(region))
	q.Set("entity", "software")
	q.Set("limit", strconv.Itoa(limit))
	env, err := c.get(ctx, "search", q)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(env.Results))
	items := make([]domain.CatalogItem, 0, len(env.Results))
	for _, r := range env.Results {
		if !r.isSoftware() || seen[r.TrackID] {
			continue
		}
		item, err := r.toItem()
		if err != nil {
			return nil, fmt.Errorf("catalog search %q: %w", term, err)
		}
		seen[r.TrackID] = true
		items = append(items, item)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) (envelope, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return envelope{}, &NetworkError{Op: endpoint, Err: err}
	}

	u := c.baseURL + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return envelope{}, fmt.Errorf("catalog %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		colors.StructuredWarn("catalog", endpoint, "failed", err, "", map[string]any{"url": u})
		return envelope{}, &NetworkError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()
	colors.StructuredDebug("catalog", endpoint, "completed", nil, "", map[string]any{
		"status":           resp.StatusCode,
		"duration_seconds": time.Since(start).Seconds(),
	})

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return envelope{}, fmt.Errorf("catalog %s: %w", endpoint, statusErr(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return envelope{}, &NetworkError{Op: endpoint, Err: err}
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("catalog %s: %w: %v", endpoint, ErrInvalidResponse, err)
	}
	if env.Results == nil {
		return envelope{}, fmt.Errorf("catalog %s: %w: missing results", endpoint, ErrInvalidResponse)
	}
	return env, nil
}

func normalizeRegion(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return DefaultRegion
	}
	return region
}
