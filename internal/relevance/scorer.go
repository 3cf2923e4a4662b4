package relevance

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"aidigest/internal/domain"
)

// Scorer rates candidate links for AI-news relevance. Scoring is pure and
// total: it never fails, and any input receives at least the base floor.
type Scorer struct {
	rules RuleSet
	year  int
}

// NewScorer compiles a scorer from the given rule set. The recency bonus is
// anchored to the wall-clock year at construction time.
func NewScorer(rules RuleSet) *Scorer {
	return &Scorer{rules: rules, year: time.Now().Year()}
}

// Score rates one (url, title) pair and returns the total together with an
// itemized breakdown. The breakdown entries appear in rule-evaluation order
// and always sum to the returned score.
func (s *Scorer) Score(rawURL, title string) (int, domain.Breakdown) {
	text := strings.ToLower(rawURL + " " + title)

	score := 0
	breakdown := make(domain.Breakdown, 0, 8)
	add := func(reason string, points int) {
		score += points
		breakdown = append(breakdown, domain.BreakdownEntry{Reason: reason, Points: points})
	}

	for _, r := range s.rules.HighValue {
		if strings.Contains(text, r.Pattern) {
			add("High-value: "+r.Pattern, r.Points)
		}
	}
	for _, r := range s.rules.MediumValue {
		if strings.Contains(text, r.Pattern) {
			add("Medium-value: "+r.Pattern, r.Points)
		}
	}
	for _, r := range s.rules.Companies {
		if strings.Contains(text, r.Pattern) {
			add("Company: "+r.Pattern, r.Points)
		}
	}
	for _, r := range s.rules.TechTerms {
		if strings.Contains(text, r.Pattern) {
			add("Tech: "+r.Pattern, r.Points)
		}
	}

	// The recency bonuses are mutually exclusive: current year wins.
	if strings.Contains(rawURL, strconv.Itoa(s.year)) {
		add("Current year", s.rules.CurrentYearBonus)
	} else if strings.Contains(rawURL, strconv.Itoa(s.year-1)) {
		add("Recent year", s.rules.RecentYearBonus)
	}

	// First matching domain wins; never more than one source entry.
	if host := hostOf(rawURL); host != "" {
		for _, r := range s.rules.SourceBonus {
			if strings.Contains(host, r.Pattern) {
				add("Source: "+r.Pattern, r.Points)
				break
			}
		}
	}

	add("Base AI relevance", s.rules.BaseScore)

	return score, breakdown
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Host)
}
