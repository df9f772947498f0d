package trend

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/shanehull/vyapar/internal/sources"
)

var priceMarkers = []string{"₹", "Rs."}

// VerdictCache remembers probe results between runs.
type VerdictCache interface {
	Get(ctx context.Context, label string) (verdict, found bool)
	Set(ctx context.Context, label string, verdict bool)
}

// Verifier decides whether a label is something people buy by looking for
// rupee prices on a web search results page.
type Verifier struct {
	client    *sources.Client
	searchURL string
	cache     VerdictCache
	log       logrus.FieldLogger
}

// NewVerifier builds a Verifier. cache may be nil.
func NewVerifier(client *sources.Client, searchURL string, cache VerdictCache, log logrus.FieldLogger) *Verifier {
	return &Verifier{client: client, searchURL: searchURL, cache: cache, log: log}
}

// IsCommercialProduct fails closed: any fetch or parse error yields false.
func (v *Verifier) IsCommercialProduct(ctx context.Context, label string) bool {
	if v.cache != nil {
		if verdict, found := v.cache.Get(ctx, label); found {
			return verdict
		}
	}

	text, err := v.searchText(ctx, label)
	if err != nil {
		v.log.WithError(err).WithField("label", label).Warn("Commercial check failed, treating as non-commercial")
		return false
	}

	verdict := hasPrice(text)
	if v.cache != nil {
		v.cache.Set(ctx, label, verdict)
	}
	return verdict
}

func (v *Verifier) searchText(ctx context.Context, label string) (string, error) {
	query := url.Values{"q": {label + " buy"}}
	body, err := v.client.Get(ctx, v.searchURL+"?"+query.Encode())
	if err != nil {
		return "", err
	}

	// Entity-encoded markers only show up once the page is parsed.
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return string(body), nil
	}
	return string(body) + "\n" + extractText(doc), nil
}

func hasPrice(text string) bool {
	for _, marker := range priceMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// extractText concatenates every text node below n, script and style
// content included, with no separator between nodes.
func extractText(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)

	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(n)
	return sb.String()
}
