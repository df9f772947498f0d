package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// forumResponse is the listing shape returned by the forum's hot.json endpoint.
type forumResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title string `json:"title"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Forum collects hot post titles from a fixed set of channels.
type Forum struct {
	client   *Client
	baseURL  string
	channels []string
	limit    int
	log      logrus.FieldLogger
}

func NewForum(client *Client, baseURL string, channels []string, limit int, log logrus.FieldLogger) *Forum {
	return &Forum{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		channels: channels,
		limit:    limit,
		log:      log,
	}
}

func (f *Forum) Name() string { return "forum" }

// Fetch never fails as a whole: channels that cannot be fetched or decoded
// are skipped.
func (f *Forum) Fetch(ctx context.Context) ([]string, error) {
	var titles []string
	for _, channel := range f.channels {
		posts, err := f.fetchChannel(ctx, channel)
		if err != nil {
			f.log.WithError(err).WithField("channel", channel).Warn("Forum channel skipped")
			continue
		}
		titles = append(titles, posts...)
	}
	return titles, nil
}

func (f *Forum) fetchChannel(ctx context.Context, channel string) ([]string, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", f.baseURL, channel, f.limit)

	body, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp forumResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode forum response: %w", err)
	}

	var titles []string
	for _, child := range resp.Data.Children {
		if title := strings.TrimSpace(child.Data.Title); title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}
