package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Sources names everything a catalog build consumes.
type Sources struct {
	UniverseFile      string
	BroadUniverseFile string
	NameMapFile       string
	CacheFile         string
	Overrides         []Override
	MaxAliases        int
}

// Snapshot is one immutable catalog/index pair. Readers resolve against a
// snapshot without locking; rebuilds swap in a whole new snapshot.
type Snapshot struct {
	Universe *Universe
	Catalog  *Catalog
	Index    *Index
	BuiltAt  time.Time
	// FromCache records whether the catalog was restored from the cache
	// artifact rather than rebuilt from source.
	FromCache bool
}

// Store owns the current catalog snapshot.
//
// The first Snapshot call builds lazily; concurrent cold-start callers block
// on a single build via singleflight instead of duplicating it. Rebuild is an
// explicit operator action that always rebuilds from source, persists the
// refreshed cache, and swaps the snapshot atomically.
type Store struct {
	sources Sources
	logger  *slog.Logger

	group   singleflight.Group
	current atomic.Pointer[Snapshot]
}

// NewStore creates a Store. Nothing is built until the first Snapshot or
// Rebuild call.
func NewStore(sources Sources, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sources: sources,
		logger:  logger.With(slog.String("component", "catalog_store")),
	}
}

// Snapshot returns the current catalog snapshot, building it on first use.
// The cache artifact is preferred when readable; a missing or corrupt cache
// triggers a full rebuild from source with a warning, never a failure.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}

	v, err, _ := s.group.Do("build", func() (interface{}, error) {
		if snap := s.current.Load(); snap != nil {
			return snap, nil
		}
		snap, err := s.build(ctx, true)
		if err != nil {
			return nil, err
		}
		s.current.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Rebuild discards any cached state, rebuilds from source, persists the
// refreshed cache artifact, and atomically publishes the new snapshot.
func (s *Store) Rebuild(ctx context.Context) (*Snapshot, error) {
	v, err, _ := s.group.Do("rebuild", func() (interface{}, error) {
		snap, err := s.build(ctx, false)
		if err != nil {
			return nil, err
		}
		s.current.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *Store) build(ctx context.Context, allowCache bool) (*Snapshot, error) {
	start := time.Now()

	universe, err := LoadUniverse(s.sources.UniverseFile, s.sources.BroadUniverseFile, s.logger)
	if err != nil {
		return nil, err
	}

	var cat *Catalog
	fromCache := false
	if allowCache && s.sources.CacheFile != "" {
		cached, cacheErr := LoadCache(s.sources.CacheFile)
		switch {
		case cacheErr == nil:
			cat = cached
			fromCache = true
		default:
			s.logger.WarnContext(ctx, "alias cache unusable, rebuilding from source",
				"cache_file", s.sources.CacheFile,
				"error", cacheErr,
			)
		}
	}

	if cat == nil {
		names, err := LoadNameMap(s.sources.NameMapFile)
		if err != nil {
			return nil, err
		}
		cat, err = Build(universe, names, s.sources.Overrides, s.sources.MaxAliases)
		if err != nil {
			return nil, err
		}
		if s.sources.CacheFile != "" {
			if err := SaveCache(s.sources.CacheFile, cat); err != nil {
				// Persisting the cache is best effort; the in-memory catalog
				// is already complete.
				s.logger.WarnContext(ctx, "failed to persist alias cache",
					"cache_file", s.sources.CacheFile,
					"error", err,
				)
			}
		}
	}

	snap := &Snapshot{
		Universe:  universe,
		Catalog:   cat,
		Index:     NewIndex(cat, s.sources.Overrides),
		BuiltAt:   time.Now(),
		FromCache: fromCache,
	}

	s.logger.InfoContext(ctx, "catalog snapshot ready",
		"tickers", universe.Len(),
		"aliases", snap.Index.Len(),
		"from_cache", fromCache,
		"duration", time.Since(start).String(),
	)
	return snap, nil
}

// Current returns the published snapshot without building, nil before the
// first build completes.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// String implements fmt.Stringer for operator logs.
func (s *Store) String() string {
	if snap := s.current.Load(); snap != nil {
		return fmt.Sprintf("catalog.Store{tickers=%d aliases=%d}", snap.Universe.Len(), snap.Index.Len())
	}
	return "catalog.Store{unbuilt}"
}
