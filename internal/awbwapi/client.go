// Package awbwapi fetches maps from the AWBW map API.
package awbwapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
)

const (
	DefaultEndpoint = "https://awbw.amarriner.com/api/map/map_info.php"
	DefaultTimeout  = 10 * time.Second

	// maxBodySize bounds a single response; the largest AWBW maps are well under 1 MiB.
	maxBodySize = 8 << 20
)

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	Endpoint      string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	// HTTPClient replaces the default compressed-transport client.
	HTTPClient *http.Client
}

// Client is an awbw.Fetcher backed by the AWBW HTTP API. Requests are rate
// limited so a busy chat channel cannot hammer the site.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

var _ awbw.Fetcher = (*Client)(nil)

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   opts.Timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		}
	}
	return &Client{
		endpoint: opts.Endpoint,
		http:     hc,
		limiter:  rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		logger:   log.With().Str("component", "awbwapi").Logger(),
	}
}

// FetchMap returns the raw map_info body for id. API-level error bodies are
// returned as-is; awbw.DecodeJSON turns them into lookup failures.
func (c *Client) FetchMap(ctx context.Context, id int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("maps_id", strconv.Itoa(id))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Int("maps_id", id).Msg("AWBW request failed")
		return nil, fmt.Errorf("requesting map %d: %w", id, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Int("maps_id", id).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("AWBW response")

	if resp.StatusCode != http.StatusOK {
		return nil, &awbw.NotFoundError{ID: id, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading map %d: %w", id, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("map %d response exceeds %d bytes", id, maxBodySize)
	}
	return body, nil
}
