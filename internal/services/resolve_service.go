package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tickerlens/internal/catalog"
	"tickerlens/internal/config"
	"tickerlens/internal/infrastructure"
	"tickerlens/internal/resolver"
	"tickerlens/pkg/contracts/domain"
)

// ResolveService resolves queries against the store's current catalog
// snapshot. The resolver instance is rebuilt only when the snapshot changes,
// so steady-state calls share one immutable resolver with no locking on the
// hot path beyond a pointer comparison.
type ResolveService struct {
	store   *catalog.Store
	cfg     config.ResolverConfig
	metrics *infrastructure.Metrics
	logger  *slog.Logger

	mu       sync.Mutex
	snap     *catalog.Snapshot
	resolver *resolver.Resolver
}

// NewResolveService creates a resolve service. metrics may be nil (CLI use).
func NewResolveService(store *catalog.Store, cfg config.ResolverConfig, metrics *infrastructure.Metrics, logger *slog.Logger) *ResolveService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolveService{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "resolve_service")),
	}
}

// Resolve runs the matching cascade for one query.
func (s *ResolveService) Resolve(ctx context.Context, query string) (domain.ResolveResult, error) {
	start := time.Now()

	res, err := s.resolverFor(ctx)
	if err != nil {
		return domain.ResolveResult{}, err
	}

	matches, warnings := res.Resolve(query)

	result := domain.ResolveResult{
		Matches:  make([]domain.TickerMatch, 0, len(matches)),
		Warnings: warnings,
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	for _, m := range matches {
		result.Matches = append(result.Matches, domain.TickerMatch{Input: m.Input, Ticker: m.Ticker})
	}

	if s.metrics != nil {
		outcome := "unmatched"
		if len(matches) > 0 {
			outcome = "matched"
		}
		s.metrics.ResolveTotal.WithLabelValues(outcome).Inc()
		s.metrics.ResolveMatches.Observe(float64(len(matches)))
		s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.DebugContext(ctx, "query resolved",
		"query_len", len(query),
		"matches", len(matches),
		"warnings", len(warnings),
	)
	return result, nil
}

// Rebuild triggers an explicit catalog rebuild and returns the new snapshot
// description.
func (s *ResolveService) Rebuild(ctx context.Context) (domain.CatalogInfo, error) {
	snap, err := s.store.Rebuild(ctx)
	if err != nil {
		return domain.CatalogInfo{}, err
	}
	if s.metrics != nil {
		s.metrics.CatalogRebuilds.Inc()
	}
	s.publishGauges(snap)
	return snapshotInfo(snap), nil
}

// CatalogInfo describes the current snapshot, building it on first use.
func (s *ResolveService) CatalogInfo(ctx context.Context) (domain.CatalogInfo, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return domain.CatalogInfo{}, err
	}
	return snapshotInfo(snap), nil
}

// Tickers returns the ordered universe symbols of the current snapshot.
func (s *ResolveService) Tickers(ctx context.Context) ([]string, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Universe.Tickers(), nil
}

// Ready reports whether a catalog snapshot can be served.
func (s *ResolveService) Ready(ctx context.Context) error {
	_, err := s.store.Snapshot(ctx)
	return err
}

// resolverFor returns a resolver bound to the current snapshot, reusing the
// cached instance while the snapshot is unchanged.
func (s *ResolveService) resolverFor(ctx context.Context) (*resolver.Resolver, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == s.snap && s.resolver != nil {
		return s.resolver, nil
	}

	res := resolver.FromSnapshot(snap, s.logger)
	fuzzy := resolver.DefaultFuzzyConfig()
	if s.cfg.TokenFuzzyFloor > 0 {
		fuzzy.TokenFloor = s.cfg.TokenFuzzyFloor
	}
	if s.cfg.PhraseFuzzyThreshold > 0 {
		fuzzy.PhraseThreshold = s.cfg.PhraseFuzzyThreshold
	}
	if s.cfg.SuggestFloor > 0 {
		fuzzy.SuggestFloor = s.cfg.SuggestFloor
	}
	res.SetFuzzyConfig(fuzzy)

	s.snap = snap
	s.resolver = res
	s.publishGauges(snap)
	return res, nil
}

func (s *ResolveService) publishGauges(snap *catalog.Snapshot) {
	if s.metrics == nil {
		return
	}
	s.metrics.CatalogTickers.Set(float64(snap.Universe.Len()))
	s.metrics.CatalogAliases.Set(float64(snap.Index.Len()))
}

func snapshotInfo(snap *catalog.Snapshot) domain.CatalogInfo {
	return domain.CatalogInfo{
		Tickers:   snap.Universe.Len(),
		Aliases:   snap.Index.Len(),
		BuiltAt:   snap.BuiltAt,
		FromCache: snap.FromCache,
	}
}
