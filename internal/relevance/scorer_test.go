package relevance

import (
	"strings"
	"testing"
)

func newTestScorer(year int) *Scorer {
	s := NewScorer(DefaultRules())
	s.year = year
	return s
}

func TestScoreAlwaysAppliesBaseFloor(t *testing.T) {
	t.Parallel()

	s := newTestScorer(2026)

	inputs := []struct {
		url   string
		title string
	}{
		{"", ""},
		{"not a url at all", ""},
		{"https://example.org/cooking/pasta", "Best pasta recipes"},
		{"://bad%%url", ""},
	}

	for _, in := range inputs {
		score, breakdown := s.Score(in.url, in.title)
		if score < 5 {
			t.Fatalf("score(%q,%q) = %d, want >= 5", in.url, in.title, score)
		}
		last := breakdown[len(breakdown)-1]
		if last.Reason != "Base AI relevance" || last.Points != 5 {
			t.Fatalf("missing base entry, got %+v", last)
		}
	}
}

func TestScoreEqualsBreakdownSum(t *testing.T) {
	t.Parallel()

	s := newTestScorer(2026)

	urls := []string{
		"https://techcrunch.com/2026/01/10/openai-gpt-research-breakthrough/",
		"https://www.wired.com/story/anthropic-claude-training-dataset/",
		"https://example.org/none",
		"",
	}

	for _, u := range urls {
		score, breakdown := s.Score(u, "Machine-learning startup funding")
		if got := breakdown.Total(); got != score {
			t.Fatalf("score %d != breakdown sum %d for %s", score, got, u)
		}
	}
}

func TestScoreSourceBonusFirstMatchWins(t *testing.T) {
	t.Parallel()

	s := newTestScorer(2026)

	// Host matches both wired.com and theverge.com; wired.com comes first in
	// the ordered bonus table, so it must be the only source entry.
	_, breakdown := s.Score("https://wired.com.theverge.com/post", "")

	var sources []string
	for _, e := range breakdown {
		if strings.HasPrefix(e.Reason, "Source: ") {
			sources = append(sources, e.Reason)
		}
	}
	if len(sources) != 1 {
		t.Fatalf("expected exactly one source entry, got %v", sources)
	}
	if sources[0] != "Source: wired.com" {
		t.Fatalf("expected first-listed domain to win, got %s", sources[0])
	}
}

func TestScoreRecencyBonusesAreExclusive(t *testing.T) {
	t.Parallel()

	s := newTestScorer(2026)

	_, breakdown := s.Score("https://example.org/2026/review-of-2025", "")

	var current, recent int
	for _, e := range breakdown {
		switch e.Reason {
		case "Current year":
			current++
			if e.Points != 8 {
				t.Fatalf("current year bonus = %d, want 8", e.Points)
			}
		case "Recent year":
			recent++
		}
	}
	if current != 1 || recent != 0 {
		t.Fatalf("expected only the current-year bonus, got current=%d recent=%d", current, recent)
	}

	_, breakdown = s.Score("https://example.org/2025/archive", "")
	for _, e := range breakdown {
		if e.Reason == "Recent year" && e.Points != 4 {
			t.Fatalf("recent year bonus = %d, want 4", e.Points)
		}
		if e.Reason == "Current year" {
			t.Fatal("current-year bonus must not fire for the previous year")
		}
	}
}

func TestScoreOpenAIBreakthroughScenario(t *testing.T) {
	t.Parallel()

	s := newTestScorer(2025)

	score, breakdown := s.Score("https://openai.com/blog/chatgpt-breakthrough-2025", "")

	want := map[string]int{
		"High-value: openai":       20,
		"High-value: chatgpt":      20,
		"High-value: gpt":          15, // substring of chatgpt, matches by design
		"High-value: breakthrough": 15,
		"Current year":             8,
		"Base AI relevance":        5,
	}

	got := map[string]int{}
	for _, e := range breakdown {
		got[e.Reason] = e.Points
	}

	for reason, points := range want {
		if got[reason] != points {
			t.Fatalf("breakdown[%q] = %d, want %d (full: %v)", reason, got[reason], points, got)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected extra entries: %v", got)
	}
	if score != 83 {
		t.Fatalf("score = %d, want 83", score)
	}
	if score != breakdown.Total() {
		t.Fatalf("score %d != breakdown total %d", score, breakdown.Total())
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	t.Parallel()

	s := newTestScorer(2026)
	url := "https://venturebeat.com/ai/nvidia-announces-llm-training-platform-2026/"

	firstScore, firstBreakdown := s.Score(url, "Nvidia announces LLM platform")
	for i := 0; i < 10; i++ {
		score, breakdown := s.Score(url, "Nvidia announces LLM platform")
		if score != firstScore {
			t.Fatalf("run %d: score %d != %d", i, score, firstScore)
		}
		if len(breakdown) != len(firstBreakdown) {
			t.Fatalf("run %d: breakdown length changed", i)
		}
		for j := range breakdown {
			if breakdown[j] != firstBreakdown[j] {
				t.Fatalf("run %d: entry %d differs: %+v vs %+v", i, j, breakdown[j], firstBreakdown[j])
			}
		}
	}
}

func TestScoreUnparsableURLStillTotal(t *testing.T) {
	t.Parallel()

	s := newTestScorer(2026)

	// No host, no keywords: only the base floor applies.
	score, breakdown := s.Score("://bad%%url", "")
	if score != 5 {
		t.Fatalf("score = %d, want bare base floor 5", score)
	}
	if len(breakdown) != 1 {
		t.Fatalf("breakdown = %v, want only the base entry", breakdown)
	}
}
