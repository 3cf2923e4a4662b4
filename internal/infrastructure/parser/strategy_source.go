package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aidigest/internal/config"
	"aidigest/internal/domain"
	"aidigest/internal/ports"
	"aidigest/internal/scanner"
)

// StrategySource implements CandidateSource via registered scanner strategies.
// A failing site is logged and contributes zero candidates; the remaining
// sites are unaffected.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	delay    time.Duration
	logger   *slog.Logger
}

var _ ports.CandidateSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, delay time.Duration, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		delay:    delay,
		logger:   log,
	}
}

// Discover iterates over configured sites sequentially with a fixed
// politeness delay in between and aggregates their candidates.
func (s *StrategySource) Discover(ctx context.Context) ([]domain.Candidate, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("discover candidates", "sites", len(s.sites))

	var aggregated []domain.Candidate
	for i, site := range s.sites {
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return aggregated, ctx.Err()
			}
		}

		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			s.warn("site skipped", "site", site.Name, "error", err)
			continue
		}

		req := scanner.Request{
			SiteName:    site.Name,
			URL:         site.URL,
			LinkPattern: site.LinkPattern,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			s.warn("site fetch failed", "site", site.Name, "error", err)
			continue
		}

		s.debug("site produced candidates", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("discovery done", "total_candidates", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
