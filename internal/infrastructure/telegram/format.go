package telegram

import (
	"fmt"
	"strings"

	"aidigest/internal/domain"
)

const (
	longFormatMax  = 10
	shortFormatMax = 8

	digestFooter = "#AI #OpenAI #Google #ChatGPT #TechNews #ArtificialIntelligence"
)

// FormatDigest renders the full digest message in Telegram Markdown.
func FormatDigest(articles []domain.Article, date string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🤖 *AI News Digest - %s*\n", date)
	b.WriteString("🚀 _The future is here: top stories from the world of artificial intelligence_\n")
	fmt.Fprintf(&b, "📊 Top %d stories from %d sources\n\n", len(articles), distinctSources(articles))

	for i, a := range articles {
		if i >= longFormatMax {
			break
		}
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, truncateTitle(a.Title, 60))
		fmt.Fprintf(&b, "📰 _%s_ • Score: %d\n", a.Source, a.RelevanceScore)
		fmt.Fprintf(&b, "📝 %s\n", truncateSummary(a.Summary, 150))
		fmt.Fprintf(&b, "🔗 [Read more](%s)\n\n", a.URL)
	}

	b.WriteString(digestFooter)
	return b.String()
}

// FormatShortDigest renders a compact digest used when the full one would
// exceed Telegram's message limit.
func FormatShortDigest(articles []domain.Article, date string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🤖 *AI Digest - %s*\n", date)
	b.WriteString("📈 _Today's most important artificial intelligence news_\n\n")

	for i, a := range articles {
		if i >= shortFormatMax {
			break
		}
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, truncateTitle(a.Title, 45))
		fmt.Fprintf(&b, "📰 _%s_ • %s\n", a.Source, truncateSummary(a.Summary, 120))
		fmt.Fprintf(&b, "🔗 [Read](%s)\n\n", a.URL)
	}

	b.WriteString(digestFooter)
	return b.String()
}

func distinctSources(articles []domain.Article) int {
	seen := map[string]struct{}{}
	for _, a := range articles {
		seen[a.Source] = struct{}{}
	}
	return len(seen)
}

// truncateTitle cuts the title to max runes, replacing the tail with "...".
func truncateTitle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// truncateSummary cuts the summary to a window of runes, preferring a
// sentence boundary when a period falls within the window's last 40 runes.
func truncateSummary(s string, window int) string {
	r := []rune(s)
	if len(r) <= window {
		return s
	}

	truncated := r[:window]
	lastPeriod := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if truncated[i] == '.' {
			lastPeriod = i
			break
		}
	}
	if lastPeriod > window-40 {
		return string(r[:lastPeriod+1])
	}
	return string(r[:window-3]) + "..."
}
