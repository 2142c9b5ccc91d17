package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gointervals/trees/interval"
)

// ErrNotFound is returned when no interval set is stored under an id.
var ErrNotFound = errors.New("interval set not found")

// Resolver is the source of truth for interval sets.
type Resolver interface {
	// resolves the set stored under id from a datasource like SQL
	Resolve(ctx context.Context, id string) (*interval.Set[float64], error)
	// persists set under id
	Store(ctx context.Context, id string, set *interval.Set[float64]) error
}

// Cache sits in front of a Resolver.
type Cache interface {
	Get(ctx context.Context, id string) (*interval.Set[float64], bool, error)
	Put(ctx context.Context, id string, set *interval.Set[float64]) error
}

// Stats counts where a lookup was served from.
type Stats struct {
	CacheHits   int `json:"hits"`
	CacheMisses int `json:"misses"`
}

// Registry stores interval sets under generated ids and serves them back,
// from the cache when possible.
type Registry struct {
	resolver Resolver
	cache    Cache
	logger   zerolog.Logger
}

func NewRegistry(resolver Resolver, cache Cache, logger zerolog.Logger) *Registry {
	return &Registry{
		resolver: resolver,
		cache:    cache,
		logger:   logger.With().Str("module", "registry").Logger(),
	}
}

// Register persists set under a new id. Empty sets are rejected since they
// cannot be told apart from a missing one.
func (r *Registry) Register(ctx context.Context, set *interval.Set[float64]) (string, error) {
	if set.Len() == 0 {
		return "", errors.Wrap(interval.ErrInvalidInterval, "empty interval set")
	}

	newUUID, err := uuid.NewUUID()
	if err != nil {
		return "", errors.Wrap(err, "generate id")
	}
	id := newUUID.String()

	if err := r.resolver.Store(ctx, id, set); err != nil {
		return "", err
	}

	// cache failures are not fatal once the set is stored
	if err := r.cache.Put(ctx, id, set); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Failed to cache interval set")
	}

	r.logger.Debug().Str("id", id).Int("intervals", set.Len()).Msg("Registered interval set")
	return id, nil
}

// Lookup returns the set stored under id.
func (r *Registry) Lookup(ctx context.Context, id string) (*interval.Set[float64], Stats, error) {
	set, ok, err := r.cache.Get(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Cache lookup failed")
	}
	if ok {
		return set, Stats{CacheHits: 1}, nil
	}

	set, err = r.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, Stats{CacheMisses: 1}, err
	}

	if err := r.cache.Put(ctx, id, set); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Failed to cache interval set")
	}
	return set, Stats{CacheMisses: 1}, nil
}
