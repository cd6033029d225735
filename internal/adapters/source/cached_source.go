package source

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/clinicops/leakwatch/internal/domain/entities"
	"github.com/clinicops/leakwatch/internal/domain/providers"
	"github.com/clinicops/leakwatch/internal/domain/repositories"
)

const (
	financialSnapshotKey  = "snapshot:financial"
	callVolumeSnapshotKey = "snapshot:call_volumes"
)

// CachedSource wraps a SnapshotRepository with a short-lived byte cache so
// repeated report requests do not re-download the source tables. Cache
// failures degrade to a direct fetch; they never fail a report.
type CachedSource struct {
	inner      repositories.SnapshotRepository
	cache      providers.CacheProvider
	ttlSeconds int
}

// NewCachedSource creates a caching wrapper around a snapshot repository
func NewCachedSource(inner repositories.SnapshotRepository, cache providers.CacheProvider, ttlSeconds int) *CachedSource {
	return &CachedSource{inner: inner, cache: cache, ttlSeconds: ttlSeconds}
}

// FinancialTables returns the cached financial snapshot, fetching on miss
func (s *CachedSource) FinancialTables(ctx context.Context) (*entities.RawTableSet, error) {
	if cached, err := s.cache.Get(ctx, financialSnapshotKey); err != nil {
		log.Warn().Err(err).Str("key", financialSnapshotKey).Msg("snapshot cache read failed")
	} else if cached != nil {
		var set entities.RawTableSet
		if err := json.Unmarshal(cached, &set); err == nil {
			return &set, nil
		}
		log.Warn().Str("key", financialSnapshotKey).Msg("discarding corrupt cached snapshot")
	}

	set, err := s.inner.FinancialTables(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, financialSnapshotKey, set)
	return set, nil
}

// CallVolumeTable returns the cached call-volume table, fetching on miss
func (s *CachedSource) CallVolumeTable(ctx context.Context) (*entities.RawTable, error) {
	if cached, err := s.cache.Get(ctx, callVolumeSnapshotKey); err != nil {
		log.Warn().Err(err).Str("key", callVolumeSnapshotKey).Msg("snapshot cache read failed")
	} else if cached != nil {
		var table entities.RawTable
		if err := json.Unmarshal(cached, &table); err == nil {
			return &table, nil
		}
		log.Warn().Str("key", callVolumeSnapshotKey).Msg("discarding corrupt cached snapshot")
	}

	table, err := s.inner.CallVolumeTable(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, callVolumeSnapshotKey, table)
	return table, nil
}

func (s *CachedSource) store(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to encode snapshot for caching")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttlSeconds); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache snapshot")
	}
}
