package mealdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher retrieves meals. It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	FetchRandom(ctx context.Context) (Meal, error)
	FetchByID(ctx context.Context, id string) (Meal, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the TheMealDB JSON API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "https://www.themealdb.com/api/json/v1/1/"
	defaultUserAgent = "lunchbox/0.1"

	randomPath = "random.php"
	lookupPath = "lookup.php"
)

// NewClient builds a Client for the API rooted at base. A zero timeout leaves
// requests unbounded; callers may still cancel through the context.
func NewClient(base string, timeout time.Duration) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchRandom retrieves one random meal.
func (c *Client) FetchRandom(ctx context.Context) (Meal, error) {
	if c == nil {
		return Meal{}, fmt.Errorf("client is nil")
	}
	const op = "random"
	var payload mealsResponse
	if err := c.get(ctx, op, &url.URL{Path: randomPath}, &payload); err != nil {
		return Meal{}, err
	}
	if len(payload.Meals) == 0 || payload.Meals[0] == nil {
		return Meal{}, &FetchError{Op: op, Kind: KindEmpty}
	}
	return payload.Meals[0].Meal(), nil
}

// FetchByID looks up a meal by its identifier. An empty result is reported
// as ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id string) (Meal, error) {
	if c == nil {
		return Meal{}, fmt.Errorf("client is nil")
	}
	const op = "lookup"
	id = strings.TrimSpace(id)
	if id == "" {
		return Meal{}, &FetchError{Op: op, Kind: KindNotFound, Err: ErrNotFound}
	}
	values := url.Values{}
	values.Set("i", id)
	rel := &url.URL{Path: lookupPath, RawQuery: values.Encode()}

	var payload mealsResponse
	if err := c.get(ctx, op, rel, &payload); err != nil {
		return Meal{}, err
	}
	if len(payload.Meals) == 0 || payload.Meals[0] == nil {
		return Meal{}, &FetchError{Op: op, Kind: KindNotFound, Err: ErrNotFound}
	}
	return payload.Meals[0].Meal(), nil
}

func (c *Client) get(ctx context.Context, op string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return &FetchError{Op: op, Kind: KindTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Op: op, Kind: KindTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Op: op, Kind: KindStatus, Status: resp.StatusCode}
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &FetchError{Op: op, Kind: KindDecode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, errors.New("parse api_base: missing host")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
