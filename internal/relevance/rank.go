package relevance

import (
	"sort"

	"aidigest/internal/domain"
)

// DedupeCandidates drops repeated URLs so each distinct link is scored once
// per run. The first occurrence wins; source attribution is not merged.
func DedupeCandidates(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := domain.NormalizeURL(c.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SelectTop returns the n highest-scored candidates. The sort is stable, so
// equal scores keep their discovery order. An empty input yields an empty
// result, never an error.
func SelectTop(scored []domain.ScoredCandidate, n int) []domain.ScoredCandidate {
	if n <= 0 || len(scored) == 0 {
		return nil
	}

	out := make([]domain.ScoredCandidate, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
