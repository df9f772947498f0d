package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// TrendFeed reads daily trending searches from an RSS feed.
type TrendFeed struct {
	client *Client
	url    string
	limit  int
}

func NewTrendFeed(client *Client, url string, limit int) *TrendFeed {
	return &TrendFeed{client: client, url: url, limit: limit}
}

func (t *TrendFeed) Name() string { return "trend-feed" }

func (t *TrendFeed) Fetch(ctx context.Context) ([]string, error) {
	body, err := t.client.Get(ctx, t.url)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed from %s: %w", t.url, err)
	}

	var titles []string
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title != "" {
			titles = append(titles, title)
		}
	}
	return capItems(titles, t.limit), nil
}
