// Package giphy is a client for a GIPHY-compatible GIF search endpoint.
package giphy

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

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
)

const maxBodySize = 4 << 20

type Client struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	limit     int
	rating    string
	userAgent string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.API.HTTPTimeout,
		},
		endpoint:  cfg.API.Endpoint,
		apiKey:    cfg.API.Key,
		limit:     cfg.API.Limit,
		rating:    cfg.API.Rating,
		userAgent: cfg.API.UserAgent,
	}
}

// SetHTTPClient replaces the underlying transport client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.client = hc
}

// BuildURL returns the request URL for query with every parameter
// percent-encoded.
func (c *Client) BuildURL(query string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}

	params := u.Query()
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(c.limit))
	if c.rating != "" {
		params.Set("rating", c.rating)
	}
	u.RawQuery = params.Encode()

	return u.String(), nil
}

// Search issues exactly one GET for query and returns the records in
// response order.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if query == "" {
		return nil, ErrEmptyQuery
	}

	reqURL, err := c.BuildURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	debuglog.WithFields(map[string]interface{}{"q": query, "limit": c.limit}).Debugf("search request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching results: %w", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: metaMessage(body)}
	}

	records, err := Decode(body)
	if err != nil {
		return nil, err
	}
	if len(records) > c.limit {
		records = records[:c.limit]
	}
	return records, nil
}

// Decode parses a search response body. A body without a data list, with a
// record lacking either image URL, or whose meta block reports a failure,
// is malformed.
func Decode(body []byte) ([]Record, error) {
	var raw struct {
		Data *[]Record `json:"data"`
		Meta Meta      `json:"meta"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if raw.Meta.Status != 0 && (raw.Meta.Status < 200 || raw.Meta.Status > 299) {
		return nil, &HTTPError{StatusCode: raw.Meta.Status, Message: raw.Meta.Msg}
	}

	if raw.Data == nil {
		return nil, fmt.Errorf("%w: missing data list", ErrMalformedResponse)
	}

	for i, rec := range *raw.Data {
		if rec.StillURL() == "" || rec.AnimatedURL() == "" {
			return nil, fmt.Errorf("%w: record %d has no still or animated url", ErrMalformedResponse, i)
		}
	}

	return *raw.Data, nil
}

func metaMessage(body []byte) string {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return ""
	}
	return r.Meta.Msg
}

// redact strips the credential from transport errors, which embed the URL.
func redact(err error, key string) error {
	var uerr *url.Error
	if key == "" || !errors.As(err, &uerr) {
		return err
	}
	uerr.URL = strings.ReplaceAll(uerr.URL, key, "REDACTED")
	return err
}
