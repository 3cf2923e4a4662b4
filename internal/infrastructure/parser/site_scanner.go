package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"aidigest/internal/domain"
	"aidigest/internal/scanner"
)

const listingUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// SiteScanner discovers article links on a news site's listing page.
type SiteScanner struct {
	client *http.Client
}

// NewSiteScanner wires an HTTP client; a default with a 20s timeout is used
// when nil is passed.
func NewSiteScanner(client *http.Client) *SiteScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &SiteScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *SiteScanner) Name() string {
	return "site"
}

// Scan fetches the listing page and extracts every anchor whose resolved URL
// matches the site's link pattern and stays on the site's host.
func (s *SiteScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Candidate, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no listing url provided for site %s", req.SiteName)
	}

	base, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing url %s: %w", req.URL, err)
	}

	var pattern *regexp.Regexp
	if req.LinkPattern != "" {
		pattern, err = regexp.Compile(req.LinkPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid link pattern for site %s: %w", req.SiteName, err)
		}
	}

	doc, err := s.fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	seen := map[string]struct{}{}
	var candidates []domain.Candidate

	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := resolveLink(base, href)
		if abs == "" {
			return
		}
		if pattern != nil && !pattern.MatchString(abs) {
			return
		}

		key := domain.NormalizeURL(abs)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		candidates = append(candidates, domain.Candidate{
			Source: req.SiteName,
			URL:    abs,
			Title:  strings.TrimSpace(a.Text()),
		})
	})

	return candidates, nil
}

func (s *SiteScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", listingUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	return doc, nil
}

// resolveLink turns an href into an absolute URL on the listing's host.
// Off-site links, mailto and javascript schemes resolve to "".
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	if !strings.EqualFold(strings.TrimPrefix(abs.Host, "www."), strings.TrimPrefix(base.Host, "www.")) {
		return ""
	}
	return abs.String()
}
