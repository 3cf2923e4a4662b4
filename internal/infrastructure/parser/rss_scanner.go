package parser

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"aidigest/internal/domain"
	"aidigest/internal/scanner"
)

// RSSScanner discovers article links from an RSS or Atom feed. Unlike the
// listing-page scanner, feed items arrive with titles already attached.
type RSSScanner struct {
	parser *gofeed.Parser
}

// NewRSSScanner builds the feed-backed strategy.
func NewRSSScanner() *RSSScanner {
	return &RSSScanner{parser: gofeed.NewParser()}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// Scan downloads and parses the configured feed URL.
func (r *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Candidate, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no feed url provided for site %s", req.SiteName)
	}

	feed, err := r.parser.ParseURLWithContext(req.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", req.URL, err)
	}

	candidates := make([]domain.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Source: req.SiteName,
			URL:    item.Link,
			Title:  item.Title,
		})
	}

	return candidates, nil
}
