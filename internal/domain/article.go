package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Candidate is a raw link discovered on a source site, not yet scored.
// The title may be empty; content extraction fills it later.
type Candidate struct {
	Source string
	URL    string
	Title  string
}

// BreakdownEntry records a single rule contribution to a relevance score.
type BreakdownEntry struct {
	Reason string
	Points int
}

// Breakdown itemizes how a score was assembled, in rule-evaluation order.
type Breakdown []BreakdownEntry

// Total sums every contribution; it always equals the score it explains.
func (b Breakdown) Total() int {
	total := 0
	for _, e := range b {
		total += e.Points
	}
	return total
}

// ScoredCandidate is a candidate with its relevance score attached.
// Immutable once produced by the scorer.
type ScoredCandidate struct {
	Candidate
	Score     int
	Breakdown Breakdown
}

// Article is the durable entity persisted by the store, one row per distinct URL hash.
type Article struct {
	ID             int64
	URL            string
	URLHash        string
	Title          string
	Content        string
	Summary        string
	Source         string
	RelevanceScore int
	WordCount      int
	Excerpt        string
	Domain         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Structured failure reasons reported by the digest step.
const (
	ReasonNoArticles    = "no_articles"
	ReasonTelegramError = "telegram_error"
	ReasonException     = "exception"
)

// DigestResult reports the outcome of one digest publication attempt.
type DigestResult struct {
	Success      bool
	Reason       string
	Error        string
	MessageID    int64
	ArticleCount int
}

// SourceStat aggregates per-source discovery counters.
type SourceStat struct {
	Source    string
	Found     int
	Processed int
}

// Stats summarizes recent store contents for the job report.
type Stats struct {
	TotalArticles int
	Summarized    int
	AvgScore      float64
	Sources       []SourceStat
}

// NormalizeURL produces the canonical form used for deduplication:
// surrounding whitespace and the fragment are dropped, as is a single
// trailing slash.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	if len(u) > 1 {
		u = strings.TrimSuffix(u, "/")
	}
	return u
}

// HashURL derives the stable dedup key for a URL.
func HashURL(raw string) string {
	sum := md5.Sum([]byte(NormalizeURL(raw)))
	return hex.EncodeToString(sum[:])
}
