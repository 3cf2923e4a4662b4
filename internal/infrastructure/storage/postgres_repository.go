package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"aidigest/internal/domain"
	"aidigest/internal/ports"
)

// PostgresStore persists articles, digest history, and source statistics.
type PostgresStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the schema when it does not exist yet. Safe to run on
// every startup.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			url_hash TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			content TEXT,
			summary TEXT,
			source TEXT NOT NULL,
			relevance_score INTEGER NOT NULL DEFAULT 0,
			word_count INTEGER NOT NULL DEFAULT 0,
			excerpt TEXT,
			domain TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS digest_posts (
			id BIGSERIAL PRIMARY KEY,
			date DATE NOT NULL UNIQUE,
			article_ids BIGINT[] NOT NULL,
			telegram_message_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS source_stats (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			date DATE NOT NULL,
			articles_found INTEGER NOT NULL DEFAULT 0,
			articles_processed INTEGER NOT NULL DEFAULT 0,
			UNIQUE (source, date)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// AddOrGet inserts the article and returns its id. If the URL hash is
// already stored, the existing row's id is returned and existed is true.
func (s *PostgresStore) AddOrGet(ctx context.Context, article domain.Article) (int64, bool, error) {
	existingID, err := s.idByHash(ctx, article.URLHash)
	if err == nil {
		return existingID, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("lookup article: %w", err)
	}

	query, args, err := s.sb.
		Insert("articles").
		Columns("url", "url_hash", "title", "content", "summary", "source",
			"relevance_score", "word_count", "excerpt", "domain").
		Values(article.URL, article.URLHash, article.Title, article.Content,
			article.Summary, article.Source, article.RelevanceScore,
			article.WordCount, article.Excerpt, article.Domain).
		Suffix("ON CONFLICT (url_hash) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost an insert race; the row exists now.
		id, err = s.idByHash(ctx, article.URLHash)
		if err != nil {
			return 0, false, fmt.Errorf("lookup after conflict: %w", err)
		}
		return id, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("insert article: %w", err)
	}
	return id, false, nil
}

func (s *PostgresStore) idByHash(ctx context.Context, hash string) (int64, error) {
	query, args, err := s.sb.
		Select("id").
		From("articles").
		Where(sq.Eq{"url_hash": hash}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build lookup: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// AttachSummary stores the generated summary on an existing article.
func (s *PostgresStore) AttachSummary(ctx context.Context, id int64, summary string) error {
	query, args, err := s.sb.
		Update("articles").
		Set("summary", summary).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("attach summary: %w", err)
	}
	return nil
}

// TopArticles returns summarized articles from the last days, best first.
func (s *PostgresStore) TopArticles(ctx context.Context, days, limit int) ([]domain.Article, error) {
	query, args, err := s.sb.
		Select("id", "url", "url_hash", "title", "content", "summary", "source",
			"relevance_score", "word_count", "excerpt", "domain", "created_at", "updated_at").
		From("articles").
		Where("created_at >= NOW() - make_interval(days => ?)", days).
		Where("summary IS NOT NULL AND summary <> ''").
		OrderBy("relevance_score DESC", "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top articles: %w", err)
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var a domain.Article
		var content, summary, excerpt, dom sql.NullString
		if err := rows.Scan(&a.ID, &a.URL, &a.URLHash, &a.Title, &content, &summary,
			&a.Source, &a.RelevanceScore, &a.WordCount, &excerpt, &dom,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Content = content.String
		a.Summary = summary.String
		a.Excerpt = excerpt.String
		a.Domain = dom.String
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// HasDigestFor reports whether a digest was already recorded for the date.
func (s *PostgresStore) HasDigestFor(ctx context.Context, date string) (bool, error) {
	query, args, err := s.sb.
		Select("1").
		From("digest_posts").
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build lookup: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup digest: %w", err)
	}
	return true, nil
}

// RecordDigest upserts the digest row for the date.
func (s *PostgresStore) RecordDigest(ctx context.Context, articleIDs []int64, messageID int64, date string) error {
	query, args, err := s.sb.
		Insert("digest_posts").
		Columns("date", "article_ids", "telegram_message_id").
		Values(date, pq.Array(articleIDs), messageID).
		Suffix(`ON CONFLICT (date) DO UPDATE
			SET article_ids = EXCLUDED.article_ids,
			    telegram_message_id = EXCLUDED.telegram_message_id,
			    created_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record digest: %w", err)
	}
	return nil
}

// UpdateSourceStats upserts the found and processed counters for one
// source and day.
func (s *PostgresStore) UpdateSourceStats(ctx context.Context, source string, found, processed int, date string) error {
	query, args, err := s.sb.
		Insert("source_stats").
		Columns("source", "date", "articles_found", "articles_processed").
		Values(source, date, found, processed).
		Suffix(`ON CONFLICT (source, date) DO UPDATE
			SET articles_found = EXCLUDED.articles_found,
			    articles_processed = EXCLUDED.articles_processed`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update source stats: %w", err)
	}
	return nil
}

// Stats aggregates article counts and the per-source totals over the last
// days.
func (s *PostgresStore) Stats(ctx context.Context, days int) (domain.Stats, error) {
	var stats domain.Stats

	totalsQuery, totalsArgs, err := s.sb.
		Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE summary IS NOT NULL AND summary <> '')",
			"COALESCE(AVG(relevance_score), 0)",
		).
		From("articles").
		Where("created_at >= NOW() - make_interval(days => ?)", days).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("build totals: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, totalsQuery, totalsArgs...).
		Scan(&stats.TotalArticles, &stats.Summarized, &stats.AvgScore); err != nil {
		return stats, fmt.Errorf("query totals: %w", err)
	}

	perSourceQuery, perSourceArgs, err := s.sb.
		Select("source", "SUM(articles_found)", "SUM(articles_processed)").
		From("source_stats").
		Where("date >= CURRENT_DATE - make_interval(days => ?)", days).
		GroupBy("source").
		OrderBy("source").
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("build per-source: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, perSourceQuery, perSourceArgs...)
	if err != nil {
		return stats, fmt.Errorf("query per-source: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st domain.SourceStat
		if err := rows.Scan(&st.Source, &st.Found, &st.Processed); err != nil {
			return stats, fmt.Errorf("scan source stat: %w", err)
		}
		stats.Sources = append(stats.Sources, st)
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("rows iteration: %w", err)
	}
	return stats, nil
}
