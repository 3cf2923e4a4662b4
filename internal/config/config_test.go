package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(openAIAPIKeyEnv, "")
	t.Setenv(telegramTokenEnv, "")
	t.Setenv(telegramChannelEnv, "")

	cfg := Load()

	if cfg.Digest.MaxArticles != 15 || cfg.Digest.MinScore != 30 {
		t.Errorf("digest defaults = %+v", cfg.Digest)
	}
	if cfg.Scheduler.CronExpression != "0 9 * * *" {
		t.Errorf("cron default = %q", cfg.Scheduler.CronExpression)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("model default = %q", cfg.OpenAI.Model)
	}
	if len(cfg.Sites) != 9 {
		t.Errorf("default sites = %d, want 9", len(cfg.Sites))
	}
	if cfg.Scheduler.Location() == nil {
		t.Error("scheduler location not bound")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
digest:
  minScore: 50
scheduler:
  cronExpression: "30 7 * * *"
sites:
  - name: Custom Feed
    scanner: rss
    url: https://example.com/feed.xml
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "")

	cfg := Load()

	if cfg.Digest.MinScore != 50 {
		t.Errorf("minScore = %d, want 50", cfg.Digest.MinScore)
	}
	if cfg.Digest.MaxArticles != 15 {
		t.Errorf("maxArticles = %d, untouched default expected", cfg.Digest.MaxArticles)
	}
	if cfg.Scheduler.CronExpression != "30 7 * * *" {
		t.Errorf("cron = %q", cfg.Scheduler.CronExpression)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Scanner != "rss" {
		t.Errorf("sites = %+v", cfg.Sites)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
database:
  dsn: postgres://file-value
openai:
  apiKey: file-key
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "postgres://env-value")
	t.Setenv(openAIAPIKeyEnv, "env-key")

	cfg := Load()

	if cfg.Database.DSN != "postgres://env-value" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.OpenAI.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.OpenAI.APIKey)
	}
}

func TestLoadUnknownTimezoneFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
scheduler:
  timezone: Not/AZone
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if got := cfg.Scheduler.Location().String(); got != "UTC" {
		t.Errorf("location = %q, want UTC", got)
	}
}
