package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Marketplace scrapes product titles from a best-seller listing page.
type Marketplace struct {
	client   *Client
	url      string
	selector string
	limit    int
}

func NewMarketplace(client *Client, url, selector string, limit int) *Marketplace {
	return &Marketplace{client: client, url: url, selector: selector, limit: limit}
}

func (m *Marketplace) Name() string { return "marketplace" }

func (m *Marketplace) Fetch(ctx context.Context) ([]string, error) {
	body, err := m.client.Get(ctx, m.url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", m.url, err)
	}

	var items []string
	doc.Find(m.selector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			items = append(items, text)
		}
	})
	return capItems(items, m.limit), nil
}
