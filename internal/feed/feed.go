// Package feed downloads the earthquake and plate-boundary payloads.
package feed

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"quakemap/internal/geodata"
)

const (
	DefaultQuakesURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultPlatesURL = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json"
)

// Options configures the Client.
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
	// BaseBackoff is the first retry delay; it doubles per attempt.
	BaseBackoff time.Duration
}

// Client fetches feeds over HTTP, or from disk for non-URL sources.
type Client struct {
	client *http.Client
	opts   Options

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "quakemap/1.0"
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 2
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = time.Second
	}
	return &Client{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (c *Client) limiterFor(u *url.URL) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[u.Host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(c.opts.RatePerSecond), 1)
		c.limiters[u.Host] = lim
	}
	return lim
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	lim := c.limiterFor(req.URL)

	var lastErr error
	for attempt := range c.opts.MaxRetries {
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "feed: rate limiter wait")
		}
		resp, err := c.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			zap.L().Warn("feed request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("feed: http %d from %s", resp.StatusCode, req.URL.String())
			zap.L().Warn("feed server error, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}
		if resp.StatusCode >= 400 {
			_ = resp.Body.Close()
			return nil, eris.Errorf("feed: http %d from %s", resp.StatusCode, req.URL.String())
		}
		return resp, nil
	}
	if lastErr == nil {
		return nil, eris.Errorf("feed: no attempts made for %s", req.URL.String())
	}
	return nil, eris.Wrap(lastErr, "feed: all retries exhausted")
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(c.opts.BaseBackoff) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	if half := int64(d) / 2; half > 0 {
		d += time.Duration(rand.Int64N(half))
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Download fetches rawURL and returns the response body.
func (c *Client) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "feed: create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/geo+json, application/json, text/csv")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// IsRemote reports whether src is fetched over HTTP rather than read from disk.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Quakes loads the earthquake feed named by src.
func (c *Client) Quakes(ctx context.Context, src string) ([]geodata.Quake, geodata.BBox, error) {
	if !IsRemote(src) {
		return geodata.LoadQuakes(src)
	}
	body, err := c.Download(ctx, src)
	if err != nil {
		return nil, geodata.BBox{}, err
	}
	defer body.Close()

	start := time.Now()
	quakes, bbox, err := geodata.DecodeQuakesFrom(src, body)
	if err != nil {
		return nil, geodata.BBox{}, err
	}
	zap.L().Info("earthquake feed loaded",
		zap.String("src", src),
		zap.Int("count", len(quakes)),
		zap.Duration("decode", time.Since(start)),
	)
	return quakes, bbox, nil
}

// Boundaries loads the plate-boundary feed named by src.
func (c *Client) Boundaries(ctx context.Context, src string) ([]geodata.Boundary, geodata.BBox, error) {
	if !IsRemote(src) {
		return geodata.LoadBoundaries(src)
	}
	body, err := c.Download(ctx, src)
	if err != nil {
		return nil, geodata.BBox{}, err
	}
	defer body.Close()

	bs, bbox, err := geodata.DecodeBoundaries(body)
	if err != nil {
		return nil, geodata.BBox{}, err
	}
	zap.L().Info("plate boundaries loaded", zap.String("src", src), zap.Int("count", len(bs)))
	return bs, bbox, nil
}
