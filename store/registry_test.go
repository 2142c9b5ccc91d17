package store

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gointervals/trees/interval"
)

type memResolver struct {
	mu       sync.Mutex
	sets     map[string]*interval.Set[float64]
	resolved int
	storeErr error
}

func newMemResolver() *memResolver {
	return &memResolver{sets: map[string]*interval.Set[float64]{}}
}

func (m *memResolver) Resolve(_ context.Context, id string) (*interval.Set[float64], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved++
	set, ok := m.sets[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "interval set %s", id)
	}
	return set, nil
}

func (m *memResolver) Store(_ context.Context, id string, set *interval.Set[float64]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return m.storeErr
	}
	m.sets[id] = set
	return nil
}

type memCache struct {
	mu   sync.Mutex
	sets map[string]*interval.Set[float64]
	err  error
}

func newMemCache() *memCache {
	return &memCache{sets: map[string]*interval.Set[float64]{}}
}

func (m *memCache) Get(_ context.Context, id string) (*interval.Set[float64], bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	set, ok := m.sets[id]
	return set, ok, nil
}

func (m *memCache) Put(_ context.Context, id string, set *interval.Set[float64]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sets[id] = set
	return nil
}

func TestRegistryRegisterLookup(t *testing.T) {
	ctx := context.Background()
	resolver, cache := newMemResolver(), newMemCache()
	registry := NewRegistry(resolver, cache, zerolog.Nop())

	set := interval.MustNew([]float64{0, 1}, []float64{1, 2})
	id, err := registry.Register(ctx, set)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	require.Contains(t, resolver.sets, id)
	require.Contains(t, cache.sets, id)

	got, stats, err := registry.Lookup(ctx, id)
	require.NoError(t, err)
	require.True(t, got.Equal(set))
	require.Equal(t, Stats{CacheHits: 1}, stats)
	require.Zero(t, resolver.resolved)
}

func TestRegistryLookupMissFillsCache(t *testing.T) {
	ctx := context.Background()
	resolver, cache := newMemResolver(), newMemCache()
	registry := NewRegistry(resolver, cache, zerolog.Nop())

	set := interval.MustNew([]float64{3}, []float64{4})
	resolver.sets["stored"] = set

	got, stats, err := registry.Lookup(ctx, "stored")
	require.NoError(t, err)
	require.True(t, got.Equal(set))
	require.Equal(t, Stats{CacheMisses: 1}, stats)

	_, stats, err = registry.Lookup(ctx, "stored")
	require.NoError(t, err)
	require.Equal(t, Stats{CacheHits: 1}, stats)
	require.Equal(t, 1, resolver.resolved)
}

func TestRegistryLookupNotFound(t *testing.T) {
	registry := NewRegistry(newMemResolver(), newMemCache(), zerolog.Nop())

	_, stats, err := registry.Lookup(context.Background(), "missing")
	require.True(t, errors.Is(err, ErrNotFound))
	require.Equal(t, Stats{CacheMisses: 1}, stats)
}

func TestRegistryCacheDown(t *testing.T) {
	ctx := context.Background()
	resolver, cache := newMemResolver(), newMemCache()
	cache.err = errors.New("connection refused")
	registry := NewRegistry(resolver, cache, zerolog.Nop())

	set := interval.MustNew([]float64{0}, []float64{1})
	id, err := registry.Register(ctx, set)
	require.NoError(t, err)

	got, stats, err := registry.Lookup(ctx, id)
	require.NoError(t, err)
	require.True(t, got.Equal(set))
	require.Equal(t, Stats{CacheMisses: 1}, stats)
}

func TestRegistryRegisterErrors(t *testing.T) {
	ctx := context.Background()
	resolver := newMemResolver()
	registry := NewRegistry(resolver, newMemCache(), zerolog.Nop())

	_, err := registry.Register(ctx, interval.MustNew[float64](nil, nil))
	require.True(t, errors.Is(err, interval.ErrInvalidInterval))

	resolver.storeErr = errors.New("disk full")
	_, err = registry.Register(ctx, interval.MustNew([]float64{0}, []float64{1}))
	require.EqualError(t, err, "disk full")
}
