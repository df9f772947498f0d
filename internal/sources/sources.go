/*
Package sources fetches trend candidates from the external feeds: a search
trends RSS feed, a marketplace best-seller listing and a set of forum
channels. Every fetcher returns its own error; Collect turns them into empty
results so one failing feed never stops the cycle.
*/
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/config"
)

// ErrStatus is wrapped when a source answers with a non-OK status.
var ErrStatus = errors.New("unexpected status")

const maxBodyBytes = 4 << 20

// Fetcher is a single candidate source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}

// Client performs GET requests with a browser-like User-Agent and a timeout.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
}

func NewClient(cfg config.SourcesConfig) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
	}
}

// Get fetches url and returns the body of a 200 response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d from %s", ErrStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	return body, nil
}

// Collect runs f and degrades any error to an empty result.
func Collect(ctx context.Context, f Fetcher, log logrus.FieldLogger) []string {
	start := time.Now()
	items, err := f.Fetch(ctx)
	if err != nil {
		log.WithError(err).WithField("source", f.Name()).Warn("Source fetch failed, continuing without it")
		return nil
	}
	log.WithFields(logrus.Fields{
		"source":   f.Name(),
		"items":    len(items),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("Source fetched")
	return items
}

// Snapshot is one cycle's worth of source output.
type Snapshot struct {
	Trends      []string
	Marketplace []string
	Forum       []string
}

// Set bundles the three fetchers used for a scoring cycle.
type Set struct {
	Trends      Fetcher
	Marketplace Fetcher
	Forum       Fetcher
}

// NewSet wires the default fetchers from configuration.
func NewSet(cfg config.SourcesConfig, log logrus.FieldLogger) Set {
	client := NewClient(cfg)
	return Set{
		Trends:      NewTrendFeed(client, cfg.TrendFeedURL, cfg.TrendFeedLimit),
		Marketplace: NewMarketplace(client, cfg.MarketplaceURL, cfg.MarketplaceSelector, cfg.MarketplaceLimit),
		Forum:       NewForum(client, cfg.ForumBaseURL, cfg.ForumChannels, cfg.ForumLimit, log),
	}
}

// FetchAll fetches the three sources concurrently. Nil fetchers yield empty lists.
func (s Set) FetchAll(ctx context.Context, log logrus.FieldLogger) Snapshot {
	var (
		wg   sync.WaitGroup
		snap Snapshot
	)

	run := func(f Fetcher, dst *[]string) {
		if f == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			*dst = Collect(ctx, f, log)
		}()
	}

	run(s.Trends, &snap.Trends)
	run(s.Marketplace, &snap.Marketplace)
	run(s.Forum, &snap.Forum)

	wg.Wait()
	return snap
}

func capItems(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
