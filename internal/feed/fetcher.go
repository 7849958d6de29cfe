package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jusunglee/nexttrain/internal/metrics"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the NYC subway GTFS-realtime endpoint; feed group
// suffixes are appended to it.
const DefaultBaseURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs"

// Fetcher downloads raw feed group payloads
type Fetcher struct {
	baseURL         string
	apiKey          string
	httpClient      *http.Client
	maxRetries      uint64
	initialInterval time.Duration
	metrics         *metrics.Collector
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithRetry sets how many times a failed request is retried and the first
// backoff interval
func WithRetry(maxRetries uint64, initial time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.maxRetries = maxRetries
		f.initialInterval = initial
	}
}

// WithMetrics records fetch results on c
func WithMetrics(c *metrics.Collector) FetcherOption {
	return func(f *Fetcher) { f.metrics = c }
}

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.httpClient = c }
}

// NewFetcher creates a fetcher for baseURL. apiKey may be empty.
func NewFetcher(baseURL, apiKey string, timeout time.Duration, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries:      3,
		initialInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the endpoint for a feed group suffix
func (f *Fetcher) URL(group string) string {
	return f.baseURL + group
}

// Fetch downloads the payload of one feed group. Transport errors, 5xx and
// 429 responses are retried; other statuses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, group string) ([]byte, error) {
	start := time.Now()
	url := f.URL(group)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.initialInterval
	b.Reset()

	var body []byte
	op := func() error {
		var err error
		body, err = f.fetchOnce(ctx, url)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("group", group).Dur("retry_in", wait).Msg("Feed fetch failed, retrying")
	}

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, f.maxRetries), ctx), notify)
	f.metrics.ObserveFetch(group, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("fetch feed group %q: %w", group, err)
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if f.apiKey != "" {
		req.Header.Set("x-api-key", f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	return io.ReadAll(resp.Body)
}
