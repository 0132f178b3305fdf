// Package marktguru talks to the marktguru offer search API. The API
// is the one backing the public website; it wants two scraped keys as
// headers and a German zip code to scope results.
package marktguru

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"flyerhunt/pkg/cache"
	"flyerhunt/pkg/logger"
	"flyerhunt/pkg/models"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.marktguru.de"

	searchPath = "/api/v1/offers/search"

	maxQueryLen = 100
	MinLimit    = 1
	MaxLimit    = 100
)

var zipPattern = regexp.MustCompile(`^\d{4,6}$`)

// CredentialResolver is satisfied by credentials.Resolver.
type CredentialResolver interface {
	Resolve(ctx context.Context, forceRefresh bool) (models.Pair, error)
}

// SearchResult is the parsed body of one search call.
type SearchResult struct {
	TotalResults int               `json:"totalResults"`
	Results      []models.RawOffer `json:"results"`
}

type Client struct {
	http  *resty.Client
	creds CredentialResolver

	// respCache may be nil; SkipCache forces a live request even
	// when an entry exists.
	respCache *cache.Cache
	SkipCache bool
}

func NewClient(baseURL string, creds CredentialResolver, respCache *cache.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(30 * time.Second)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	return &Client{
		http:      client,
		creds:     creds,
		respCache: respCache,
	}
}

// Search validates its inputs, then issues one search request. A 401
// or 403 triggers exactly one more attempt with a forced credential
// refresh; every other failure propagates unchanged.
func (c *Client) Search(ctx context.Context, query, zip string, limit int) (SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return SearchResult{}, &models.ValidationError{Msg: "query must not be empty"}
	}
	if len([]rune(q)) > maxQueryLen {
		return SearchResult{}, &models.ValidationError{Msg: fmt.Sprintf("query exceeds %d characters", maxQueryLen)}
	}
	if !zipPattern.MatchString(zip) {
		return SearchResult{}, &models.ValidationError{Msg: fmt.Sprintf("zip code %q must be 4-6 digits", zip)}
	}
	if limit < MinLimit || limit > MaxLimit {
		return SearchResult{}, &models.ValidationError{Msg: fmt.Sprintf("limit %d outside [%d, %d]", limit, MinLimit, MaxLimit)}
	}

	key := cacheKey(q, zip, limit)
	if !c.SkipCache {
		var cached SearchResult
		if c.respCache.Get(key, &cached) {
			logger.Dedup("marktguru: cache hit for %q", q)
			return cached, nil
		}
	}

	res, err := c.attempt(ctx, q, zip, limit, false)
	if err != nil {
		var ue *models.UpstreamError
		if errors.As(err, &ue) && ue.AuthFailure() {
			res, err = c.attempt(ctx, q, zip, limit, true)
		}
	}
	if err != nil {
		return SearchResult{}, err
	}

	c.respCache.Set(key, res)
	return res, nil
}

func (c *Client) attempt(ctx context.Context, query, zip string, limit int, forceRefresh bool) (SearchResult, error) {
	pair, err := c.creds.Resolve(ctx, forceRefresh)
	if err != nil {
		return SearchResult{}, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"as":      "web",
			"limit":   strconv.Itoa(limit),
			"q":       query,
			"zipCode": zip,
		}).
		SetHeader("x-apikey", pair.APIKey).
		SetHeader("x-clientkey", pair.ClientKey).
		Get(searchPath)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search request failed: %w", err)
	}

	if resp.IsError() {
		return SearchResult{}, &models.UpstreamError{
			Status: resp.StatusCode(),
			Body:   truncate(string(resp.Body()), 200),
		}
	}

	return parseSearchBody(resp.StatusCode(), resp.Body())
}

// parseSearchBody accepts any object carrying a results array.
// totalResults of a wrong type counts as absent.
func parseSearchBody(status int, body []byte) (SearchResult, error) {
	malformed := func() *models.UpstreamError {
		return &models.UpstreamError{
			Status:    status,
			Body:      truncate(string(body), 200),
			Malformed: true,
		}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || envelope == nil {
		return SearchResult{}, malformed()
	}

	rawResults, ok := envelope["results"]
	if !ok {
		return SearchResult{}, malformed()
	}
	var offers []models.RawOffer
	if err := json.Unmarshal(rawResults, &offers); err != nil {
		return SearchResult{}, malformed()
	}

	total := 0
	if rawTotal, ok := envelope["totalResults"]; ok {
		var f float64
		if err := json.Unmarshal(rawTotal, &f); err == nil {
			total = int(f)
		}
	}

	return SearchResult{TotalResults: total, Results: offers}, nil
}

func cacheKey(query, zip string, limit int) string {
	return fmt.Sprintf("%s|%s|%d", strings.ToLower(query), zip, limit)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
