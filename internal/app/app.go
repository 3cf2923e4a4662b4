package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"aidigest/internal/config"
	"aidigest/internal/domain"
	"aidigest/internal/infrastructure/llm"
	"aidigest/internal/infrastructure/parser"
	"aidigest/internal/infrastructure/scheduler"
	"aidigest/internal/infrastructure/storage"
	"aidigest/internal/infrastructure/telegram"
	"aidigest/internal/logging"
	"aidigest/internal/relevance"
	"aidigest/internal/scanner"
	"aidigest/internal/usecase"
)

// Application wires configuration to adapters, use cases, and lifecycle.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance. The database connection is
// opened and migrated eagerly so misconfiguration fails fast.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewSiteScanner(nil))
	registry.Register(parser.NewRSSScanner())

	source := parser.NewStrategySource(registry, cfg.Sites, cfg.Digest.FetchDelay(),
		baseLogger.With("component", "source"))
	extractor := parser.NewHTTPExtractor(nil)
	summarizer := llm.NewClient(cfg.OpenAI)
	publisher := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChannelID)
	scorer := relevance.NewScorer(rulesFromConfig(cfg.Scoring))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Extractor:  extractor,
		Scorer:     scorer,
		Store:      store,
		Summarizer: summarizer,
		Publisher:  publisher,
		Logger:     baseLogger.With("component", "pipeline"),
		Options: usecase.Options{
			MaxArticles:    cfg.Digest.MaxArticles,
			MinScore:       cfg.Digest.MinScore,
			PerSourceLimit: cfg.Digest.PerSourceLimit,
			SummaryWords:   cfg.Digest.SummaryWords,
			LookbackDays:   cfg.Digest.LookbackDays,
			FetchDelay:     cfg.Digest.FetchDelay(),
		},
	})

	cronDriver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(cronDriver, pipeline),
	}, nil
}

// RunOnce executes a full collect-then-digest cycle.
func (a *Application) RunOnce(ctx context.Context) (domain.DigestResult, error) {
	return a.pipeline.RunOnce(ctx)
}

// Collect runs only the discovery and persistence stage.
func (a *Application) Collect(ctx context.Context) (int, error) {
	return a.pipeline.Collect(ctx)
}

// Digest publishes a digest for the given date, today when empty.
func (a *Application) Digest(ctx context.Context, date string) domain.DigestResult {
	return a.pipeline.Digest(ctx, date)
}

// Schedule runs the recurring digest job until the context is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Timezone)

	<-ctx.Done()

	stopCtx := context.Background()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// rulesFromConfig converts configured weight tables into a rule set,
// falling back to the built-in tables for empty sections.
func rulesFromConfig(cfg config.ScoringConfig) relevance.RuleSet {
	rules := relevance.DefaultRules()
	if len(cfg.HighValue) > 0 {
		rules.HighValue = toRules(cfg.HighValue)
	}
	if len(cfg.MediumValue) > 0 {
		rules.MediumValue = toRules(cfg.MediumValue)
	}
	if len(cfg.Companies) > 0 {
		rules.Companies = toRules(cfg.Companies)
	}
	if len(cfg.TechTerms) > 0 {
		rules.TechTerms = toRules(cfg.TechTerms)
	}
	if len(cfg.SourceBonus) > 0 {
		rules.SourceBonus = toRules(cfg.SourceBonus)
	}
	return rules
}

func toRules(entries []config.WeightEntry) []relevance.Rule {
	rules := make([]relevance.Rule, 0, len(entries))
	for _, e := range entries {
		rules = append(rules, relevance.Rule{Pattern: e.Pattern, Points: e.Points})
	}
	return rules
}
