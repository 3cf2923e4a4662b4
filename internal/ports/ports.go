package ports

import (
	"context"
	"time"

	"aidigest/internal/domain"
)

// CandidateSource pulls raw article links from the configured discovery sites.
type CandidateSource interface {
	Discover(ctx context.Context) ([]domain.Candidate, error)
}

// ContentExtractor downloads an article page and builds the article fields.
// On failure it still returns a usable article skeleton alongside the error.
type ContentExtractor interface {
	Extract(ctx context.Context, url, source string) (domain.Article, error)
}

// ArticleStore persists articles, digest history, and per-source statistics.
type ArticleStore interface {
	// AddOrGet inserts the article or, when its URL hash is already known,
	// returns the existing id untouched.
	AddOrGet(ctx context.Context, article domain.Article) (id int64, existed bool, err error)
	AttachSummary(ctx context.Context, id int64, summary string) error
	// TopArticles returns summarized articles from the last days, ordered by
	// relevance score then recency.
	TopArticles(ctx context.Context, days, limit int) ([]domain.Article, error)
	HasDigestFor(ctx context.Context, date string) (bool, error)
	RecordDigest(ctx context.Context, articleIDs []int64, messageID int64, date string) error
	UpdateSourceStats(ctx context.Context, source string, found, processed int, date string) error
	Stats(ctx context.Context, days int) (domain.Stats, error)
}

// Summarizer condenses article content; failures are the caller's to handle.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string, maxWords int) (string, error)
}

// Publisher delivers the formatted digest to the outbound channel.
type Publisher interface {
	SendDigest(ctx context.Context, articles []domain.Article, date string) (messageID int64, err error)
	SendAlert(ctx context.Context, text string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
