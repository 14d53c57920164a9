package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/logging"
)

// Fetcher defines the read operations the stores depend on.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchCatalog(ctx context.Context, limit int) ([]Item, error)
	FetchItem(ctx context.Context, id string) (Item, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the products HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	log       logrus.FieldLogger
}

const (
	// DefaultAPIBase is the public demo API the catalog is read from.
	DefaultAPIBase = "https://dummyjson.com"
	// DefaultLimit is the fixed page size of the list fetch.
	DefaultLimit = 100

	defaultUserAgent = "storefront/0.1"
	requestTimeout   = 10 * time.Second
	requestIDHeader  = "X-Request-ID"
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout. It is applied to a copy of the
// HTTP client once all options have run.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient builds a Client for the given API base URL.
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// BaseURL returns the normalised API base.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CatalogURL returns the list endpoint for the given page size.
func (c *Client) CatalogURL(limit int) string {
	return c.catalogURL(limit).String()
}

// ItemURL returns the detail endpoint for id.
func (c *Client) ItemURL(id int) string {
	return c.itemURL(id).String()
}

// FetchCatalog retrieves up to limit products in server order.
func (c *Client) FetchCatalog(ctx context.Context, limit int) ([]Item, error) {
	page, err := c.FetchPage(ctx, limit)
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

// FetchPage retrieves the list endpoint including its paging envelope.
func (c *Client) FetchPage(ctx context.Context, limit int) (CatalogPage, error) {
	if c == nil {
		return CatalogPage{}, errors.New("client is nil")
	}
	const op = "fetch catalog"
	target := c.catalogURL(limit)

	var raw struct {
		Products *[]Item `json:"products"`
		Total    int     `json:"total"`
		Skip     int     `json:"skip"`
		Limit    int     `json:"limit"`
	}
	if err := c.get(ctx, op, target, &raw, false); err != nil {
		return CatalogPage{}, err
	}
	if raw.Products == nil {
		return CatalogPage{}, newError(ErrParse, op, target, errors.New("response has no products field"))
	}
	for _, item := range *raw.Products {
		if err := item.validate(); err != nil {
			return CatalogPage{}, newError(ErrParse, op, target, err)
		}
	}
	return CatalogPage{
		Products: *raw.Products,
		Total:    raw.Total,
		Skip:     raw.Skip,
		Limit:    raw.Limit,
	}, nil
}

// FetchItem retrieves a single product. The id is the string form carried by
// navigation paths and must parse as a positive integer.
func (c *Client) FetchItem(ctx context.Context, id string) (Item, error) {
	if c == nil {
		return Item{}, errors.New("client is nil")
	}
	key, err := ParseID(id)
	if err != nil {
		return Item{}, err
	}
	const op = "fetch item"
	target := c.itemURL(key)

	var payload *Item
	if err := c.get(ctx, op, target, &payload, true); err != nil {
		return Item{}, err
	}
	if payload == nil || payload.ID == 0 {
		return Item{}, newError(ErrNotFound, op, target, errors.Errorf("empty payload for product %d", key))
	}
	if err := payload.validate(); err != nil {
		return Item{}, newError(ErrParse, op, target, err)
	}
	return *payload, nil
}

func (c *Client) catalogURL(limit int) *url.URL {
	if limit <= 0 {
		limit = DefaultLimit
	}
	u := c.baseURL.JoinPath("products")
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	u.RawQuery = values.Encode()
	return u
}

func (c *Client) itemURL(id int) *url.URL {
	return c.baseURL.JoinPath("products", strconv.Itoa(id))
}

// get performs one GET and decodes the body into dest. A 404 or an empty body
// is ErrNotFound only for single-resource reads; for the list endpoint they
// are ErrNetwork and ErrParse respectively.
func (c *Client) get(ctx context.Context, op string, target *url.URL, dest any, single bool) error {
	requestID := uuid.NewString()
	entry := c.log.WithFields(logrus.Fields{
		"op":         op,
		"url":        target.String(),
		"request_id": requestID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return newError(ErrNetwork, op, target, errors.Wrap(err, "create request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	entry.Debug("request started")
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return newError(ErrNetwork, op, target, errors.Wrap(err, "execute request"))
	}
	defer func() { _ = resp.Body.Close() }()

	entry = entry.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	if resp.StatusCode == http.StatusNotFound && single {
		entry.Warn("resource not found")
		return newError(ErrNotFound, op, target, errors.Errorf("api returned status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		entry.Warn("request rejected")
		return newError(ErrNetwork, op, target, errors.Errorf("api returned status %d", resp.StatusCode))
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			entry.Warn("empty response body")
			kind := ErrParse
			if single {
				kind = ErrNotFound
			}
			return newError(kind, op, target, errors.New("empty response body"))
		}
		entry.WithError(err).Warn("decode failed")
		return newError(ErrParse, op, target, errors.Wrap(err, "decode response"))
	}
	entry.Info("request completed")
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = DefaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api base %q", apiBase)
	}
	if u.Host == "" {
		return nil, errors.Errorf("parse api base %q: missing host", apiBase)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
