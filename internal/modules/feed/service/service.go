package service

import (
	"context"
	"net/http"
	"time"

	"github.com/herald-rss/herald/internal/modules/feed/domain"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Fetcher retrieves and parses a feed into entries.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]*domain.Entry, error)
}

// Service fetches RSS/Atom feeds over HTTP
type Service struct {
	parser    *gofeed.Parser
	client    *http.Client
	userAgent string
}

// New creates a new feed fetching service
func New(timeout time.Duration, userAgent string) *Service {
	return &Service{
		parser:    gofeed.NewParser(),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads and parses the feed at url. A non-200 response or a
// parse failure is returned as an error; the caller decides whether to
// skip the feed.
func (s *Service) Fetch(ctx context.Context, url string) ([]*domain.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, oops.With("feed_url", url).Wrap(err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, oops.With("feed_url", url, "context", "feed request failed").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, oops.With("feed_url", url).Errorf("unexpected status %d", resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, oops.With("feed_url", url, "context", "feed parse failed").Wrap(err)
	}

	entries := lo.Map(feed.Items, func(item *gofeed.Item, _ int) *domain.Entry {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		return &domain.Entry{
			GUID:      item.GUID,
			Title:     item.Title,
			Link:      item.Link,
			Summary:   summary,
			Published: item.PublishedParsed,
			Updated:   item.UpdatedParsed,
		}
	})

	return entries, nil
}
