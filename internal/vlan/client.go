package vlan

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

// SegmentSource provides raw inventory records from the VLAN Manager.
// Implementations degrade to empty collections on failure; a transiently
// unavailable inventory must never surface as an error to callers.
type SegmentSource interface {
	FetchAllocatedSegments(ctx context.Context) []domain.Segment
	FetchSites(ctx context.Context) []string
}

// Client talks to the VLAN Manager HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

var _ SegmentSource = (*Client)(nil)

// NewClient creates a VLAN Manager client. When insecureTLS is set,
// certificate verification is disabled (internal deployments).
func NewClient(baseURL string, timeout time.Duration, insecureTLS bool, logger *zap.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// FetchAllocatedSegments fetches the allocated (non-released) segments.
// Returns an empty slice on any transport or decode fault.
func (c *Client) FetchAllocatedSegments(ctx context.Context) []domain.Segment {
	var segments []domain.Segment
	params := url.Values{"allocated": []string{"true"}}
	if err := c.get(ctx, "/api/segments", params, &segments); err != nil {
		c.logger.Error("failed to fetch segments from vlan manager",
			zap.String("url", c.baseURL), zap.Error(err))
		return nil
	}
	c.logger.Debug("fetched segments", zap.Int("count", len(segments)))
	return segments
}

// FetchSites fetches the list of known site names. Returns an empty slice
// on any transport or decode fault.
func (c *Client) FetchSites(ctx context.Context) []string {
	var payload struct {
		Sites []string `json:"sites"`
	}
	if err := c.get(ctx, "/api/sites", nil, &payload); err != nil {
		c.logger.Error("failed to fetch sites from vlan manager",
			zap.String("url", c.baseURL), zap.Error(err))
		return nil
	}
	return payload.Sites
}

// get performs a single GET against the VLAN Manager and decodes the JSON
// response into v. Any transport error, timeout, non-2xx status, or decode
// fault is reported as domain.ErrUnavailable.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	full := c.baseURL + path
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", domain.ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d from %s", domain.ErrUnavailable, resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response from %s: %v", domain.ErrUnavailable, path, err)
	}

	return nil
}
