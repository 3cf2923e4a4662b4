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
	"aidigest/internal/ports"
)

// minContentLength is the smallest body size considered a real article.
const minContentLength = 100

var whitespaceRe = regexp.MustCompile(`\s+`)

// selectorSet holds the CSS selectors tried in order for one site.
type selectorSet struct {
	title   []string
	content []string
}

// siteSelectors maps lowercased source names to their selector sets.
// Unknown sources fall back to genericSelectors.
var siteSelectors = map[string]selectorSet{
	"techcrunch": {
		title:   []string{"h1.article__title", `h1[data-module="ArticleTitle"]`, "h1.wp-block-post-title"},
		content: []string{".article-content", ".entry-content", ".wp-block-post-content"},
	},
	"wired": {
		title:   []string{`h1[data-testid="ContentHeaderHed"]`, "h1.ContentHeaderHed", "h1.article-title"},
		content: []string{`[data-testid="BodyWrapper"]`, ".ArticleBodyWrapper", ".content"},
	},
	"the verge": {
		title:   []string{`h1[data-testid="headline"]`, "h1.c-page-title", "h1.entry-title"},
		content: []string{".c-entry-content", ".l-wrapper", ".entry-content"},
	},
	"venturebeat": {
		title:   []string{"h1.article-title", "h1.entry-title", "h1"},
		content: []string{".article-content", ".entry-content", ".post-content"},
	},
	"mit tech review": {
		title:   []string{"h1.article-header__title", "h1.story-header__title", "h1"},
		content: []string{".article-body", ".story-body", ".content"},
	},
	"ars technica": {
		title:   []string{`h1[itemprop="headline"]`, "h1.article-title", "h1"},
		content: []string{".article-content", `[itemprop="articleBody"]`, ".post-content"},
	},
	"zdnet": {
		title:   []string{"h1.article-title", "h1", ".headline"},
		content: []string{".article-body", ".content", ".storyBody"},
	},
	"forbes": {
		title:   []string{`h1[data-testid="article-headline"]`, "h1.article-headline", "h1"},
		content: []string{`[data-testid="article-body"]`, ".article-body", ".body"},
	},
	"bloomberg": {
		title:   []string{`h1[data-module="ArticleHeader"]`, "h1.headline", "h1"},
		content: []string{`[data-module="ArticleBody"]`, ".article-body", ".story-body"},
	},
}

var genericSelectors = selectorSet{
	title:   []string{"h1", "title", ".title", ".headline", `[data-testid="headline"]`},
	content: []string{"article", ".article", ".content", ".post-content", ".entry-content", ".article-content", "main"},
}

// HTTPExtractor fetches article pages and pulls out title and body text
// using per-site selector sets.
type HTTPExtractor struct {
	client *http.Client
}

var _ ports.ContentExtractor = (*HTTPExtractor)(nil)

// NewHTTPExtractor creates an extractor. A nil client gets a sane default.
func NewHTTPExtractor(client *http.Client) *HTTPExtractor {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPExtractor{client: client}
}

// Extract downloads the page at rawURL and returns the parsed article.
// On failure it still returns a usable skeleton with a title derived
// from the URL, alongside the error.
func (e *HTTPExtractor) Extract(ctx context.Context, rawURL, source string) (domain.Article, error) {
	doc, err := e.fetch(ctx, rawURL)
	if err != nil {
		return skeletonArticle(rawURL), fmt.Errorf("extract %s: %w", rawURL, err)
	}

	sel, ok := siteSelectors[strings.ToLower(source)]
	if !ok {
		sel = genericSelectors
	}

	title := findTitle(doc, sel.title)
	content := findContent(doc, sel.content)

	return buildArticle(rawURL, title, content), nil
}

func (e *HTTPExtractor) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", listingUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

func findTitle(doc *goquery.Document, selectors []string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(doc.Find(s).First().Text()); text != "" {
			return collapseWhitespace(text)
		}
	}
	if text := strings.TrimSpace(doc.Find("title").First().Text()); text != "" {
		return collapseWhitespace(text)
	}
	return "Title not found"
}

func findContent(doc *goquery.Document, selectors []string) string {
	for _, s := range selectors {
		node := doc.Find(s).First()
		if node.Length() == 0 {
			continue
		}
		text := collapseWhitespace(node.Text())
		if len(text) > minContentLength {
			return text
		}
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func buildArticle(rawURL, title, content string) domain.Article {
	excerpt := content
	if len(content) > 200 {
		excerpt = content[:200] + "..."
	}

	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	return domain.Article{
		URL:       rawURL,
		URLHash:   domain.HashURL(rawURL),
		Title:     title,
		Content:   content,
		Excerpt:   excerpt,
		WordCount: len(strings.Fields(content)),
		Domain:    host,
	}
}

func skeletonArticle(rawURL string) domain.Article {
	return domain.Article{
		URL:     rawURL,
		URLHash: domain.HashURL(rawURL),
		Title:   fallbackTitleFromURL(rawURL),
	}
}

// fallbackTitleFromURL turns the last path segment into a readable title,
// so failed fetches still carry something displayable.
func fallbackTitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Article"
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "Article"
	}
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]
	last = strings.NewReplacer("-", " ", "_", " ").Replace(last)
	if last == "" {
		return "Article"
	}
	return titleCase(last)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
