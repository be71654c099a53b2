// Package upstream calls the analytics backend that parses questions and
// aggregates the inventory records.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sjperalta/consulta-api/internal/models"
	"github.com/tidwall/gjson"
)

// maxBodySize caps how much of a backend response is read
const maxBodySize = 10 << 20

// ErrInvalidJSON is returned when a 2xx response body is not a JSON object
var ErrInvalidJSON = errors.New("invalid JSON from server")

// HTTPError is a non-2xx answer from the backend
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d - %s", e.StatusCode, e.Body)
}

// Health is the backend's self-reported status
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Records  int64  `json:"records"`
}

// Client talks to the analytics backend over HTTP. Requests are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend rooted at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Question string `json:"question"`
}

// Query posts a question to /query, or to /query/<domain> when domain is set,
// and decodes the analytics payload.
func (c *Client) Query(ctx context.Context, domain, question string) (*models.AnalyticsPayload, error) {
	endpoint := c.baseURL + "/query"
	if domain != "" {
		endpoint += "/" + url.PathEscape(domain)
	}

	body, err := json.Marshal(queryRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	payload, err := models.ParsePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, strings.TrimSpace(string(raw)))
	}
	return payload, nil
}

// Health calls the backend's /health endpoint
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, strings.TrimSpace(string(raw)))
	}
	doc := gjson.ParseBytes(raw)
	return &Health{
		Status:   doc.Get("status").String(),
		Database: doc.Get("database").String(),
		Records:  doc.Get("records").Int(),
	}, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to analytics backend failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}
