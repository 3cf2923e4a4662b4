package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"aidigest/internal/domain"
	"aidigest/internal/ports"
	"aidigest/internal/relevance"
)

// summarizeThreshold is the minimum content length worth sending to the
// summarizer.
const summarizeThreshold = 100

// Options carries the pipeline's tunable limits.
type Options struct {
	MaxArticles    int
	MinScore       int
	PerSourceLimit int
	SummaryWords   int
	LookbackDays   int
	FetchDelay     time.Duration
}

// PipelineDeps wires all driven adapters into the digest pipeline.
type PipelineDeps struct {
	Source     ports.CandidateSource
	Extractor  ports.ContentExtractor
	Scorer     *relevance.Scorer
	Store      ports.ArticleStore
	Summarizer ports.Summarizer
	Publisher  ports.Publisher
	Logger     *slog.Logger
	Options    Options
}

// Pipeline implements the collect-score-summarize-publish workflow.
type Pipeline struct {
	source     ports.CandidateSource
	extractor  ports.ContentExtractor
	scorer     *relevance.Scorer
	store      ports.ArticleStore
	summarizer ports.Summarizer
	publisher  ports.Publisher
	logger     *slog.Logger
	opts       Options
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		extractor:  deps.Extractor,
		scorer:     deps.Scorer,
		store:      deps.Store,
		summarizer: deps.Summarizer,
		publisher:  deps.Publisher,
		logger:     logger,
		opts:       deps.Options,
	}
}

// Collect discovers candidates, scores them, extracts and summarizes the
// relevant ones, and persists everything. It returns the number of newly
// stored articles.
func (p *Pipeline) Collect(ctx context.Context) (int, error) {
	candidates, err := p.source.Discover(ctx)
	if err != nil {
		return 0, fmt.Errorf("discover candidates: %w", err)
	}

	candidates = relevance.DedupeCandidates(candidates)
	p.logger.Info("collection started", "candidates", len(candidates))

	found := map[string]int{}
	var relevant []domain.ScoredCandidate
	for _, cand := range candidates {
		found[cand.Source]++

		score, breakdown := p.scorer.Score(cand.URL, cand.Title)
		if score < p.opts.MinScore {
			p.logger.Debug("candidate below threshold",
				"url", cand.URL, "score", score)
			continue
		}
		relevant = append(relevant, domain.ScoredCandidate{
			Candidate: cand,
			Score:     score,
			Breakdown: breakdown,
		})
	}

	// Process best candidates first so per-source limits keep the
	// highest-scoring articles.
	relevant = relevance.SelectTop(relevant, len(relevant))

	processed := map[string]int{}
	newCount := 0

	for _, sc := range relevant {
		if err := ctx.Err(); err != nil {
			return newCount, err
		}

		cand := sc.Candidate
		score := sc.Score

		if p.opts.PerSourceLimit > 0 && processed[cand.Source] >= p.opts.PerSourceLimit {
			continue
		}

		article, err := p.extractor.Extract(ctx, cand.URL, cand.Source)
		if err != nil {
			p.logger.Warn("extraction failed, keeping skeleton",
				"url", cand.URL, "error", err)
		}
		article.Source = cand.Source
		article.RelevanceScore = score
		if article.Title == "" {
			article.Title = cand.Title
		}

		id, existed, err := p.store.AddOrGet(ctx, article)
		if err != nil {
			return newCount, fmt.Errorf("store article %s: %w", cand.URL, err)
		}

		processed[cand.Source]++

		if existed {
			p.logger.Debug("article already stored", "url", cand.URL, "id", id)
			continue
		}

		if len(article.Content) > summarizeThreshold {
			summary, err := p.summarizer.Summarize(ctx, article.Title, article.Content, p.opts.SummaryWords)
			if err != nil {
				p.logger.Warn("summarization failed, using fallback",
					"url", cand.URL, "error", err)
				summary = fallbackSummary(article.Content, p.opts.SummaryWords)
			}
			if err := p.store.AttachSummary(ctx, id, summary); err != nil {
				return newCount, fmt.Errorf("attach summary %s: %w", cand.URL, err)
			}
		}

		newCount++
		p.logger.Info("article stored",
			"source", cand.Source, "score", score, "url", cand.URL)

		if p.opts.FetchDelay > 0 {
			select {
			case <-time.After(p.opts.FetchDelay):
			case <-ctx.Done():
				return newCount, ctx.Err()
			}
		}
	}

	today := time.Now().Format("2006-01-02")
	for source, count := range found {
		if err := p.store.UpdateSourceStats(ctx, source, count, processed[source], today); err != nil {
			p.logger.Warn("source stats update failed", "source", source, "error", err)
		}
	}

	p.logger.Info("collection finished", "new_articles", newCount)
	return newCount, nil
}

// Digest selects the top stored articles and publishes them. The date
// defaults to today when empty.
func (p *Pipeline) Digest(ctx context.Context, date string) domain.DigestResult {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	exists, err := p.store.HasDigestFor(ctx, date)
	if err != nil {
		return domain.DigestResult{Reason: domain.ReasonException, Error: err.Error()}
	}
	if exists {
		p.logger.Warn("digest already posted for date, reposting", "date", date)
	}

	articles, err := p.store.TopArticles(ctx, p.opts.LookbackDays, p.opts.MaxArticles)
	if err != nil {
		return domain.DigestResult{Reason: domain.ReasonException, Error: err.Error()}
	}
	if len(articles) == 0 {
		p.logger.Info("no articles for digest", "date", date)
		return domain.DigestResult{Reason: domain.ReasonNoArticles}
	}

	messageID, err := p.publisher.SendDigest(ctx, articles, date)
	if err != nil {
		p.logger.Error("digest publish failed", "date", date, "error", err)
		return domain.DigestResult{Reason: domain.ReasonTelegramError, Error: err.Error()}
	}

	ids := make([]int64, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	if err := p.store.RecordDigest(ctx, ids, messageID, date); err != nil {
		p.logger.Error("digest record failed", "date", date, "error", err)
		return domain.DigestResult{Reason: domain.ReasonException, Error: err.Error()}
	}

	p.logger.Info("digest published",
		"date", date, "articles", len(articles), "message_id", messageID)
	return domain.DigestResult{
		Success:      true,
		MessageID:    messageID,
		ArticleCount: len(articles),
	}
}

// RunOnce performs a full collect-then-digest cycle and reports stats.
// Collection failures trigger an alert to the publisher channel.
func (p *Pipeline) RunOnce(ctx context.Context) (domain.DigestResult, error) {
	newCount, err := p.Collect(ctx)
	if err != nil {
		alert := fmt.Sprintf("🚨 Daily digest job failed: %v", err)
		if alertErr := p.publisher.SendAlert(ctx, alert); alertErr != nil {
			p.logger.Error("alert delivery failed", "error", alertErr)
		}
		return domain.DigestResult{Reason: domain.ReasonException, Error: err.Error()}, err
	}

	result := p.Digest(ctx, "")

	stats, statsErr := p.store.Stats(ctx, 7)
	if statsErr != nil {
		p.logger.Warn("stats query failed", "error", statsErr)
	} else {
		p.logger.Info("weekly stats",
			"total_articles", stats.TotalArticles,
			"summarized", stats.Summarized,
			"avg_score", stats.AvgScore)
	}

	p.logger.Info("run finished",
		"new_articles", newCount,
		"digest_success", result.Success,
		"digest_reason", result.Reason)
	return result, nil
}

// fallbackSummary builds a cheap extractive summary when the LLM call
// fails: the first few sentences, capped at maxWords words.
func fallbackSummary(content string, maxWords int) string {
	content = strings.TrimSpace(content)

	sentences := strings.Split(content, ". ")
	if len(sentences) < 2 {
		r := []rune(content)
		if len(r) <= 200 {
			return content
		}
		return string(r[:200]) + "..."
	}

	take := 3
	if take > len(sentences) {
		take = len(sentences)
	}
	summary := strings.Join(sentences[:take], ". ")
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}

	words := strings.Fields(summary)
	if maxWords > 0 && len(words) > maxWords {
		summary = strings.Join(words[:maxWords], " ") + "..."
	}
	return summary
}
