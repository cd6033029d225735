package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/leakwatch/internal/adapters/source"
	"github.com/clinicops/leakwatch/internal/domain/entities"
)

type countingRepo struct {
	financialCalls  int
	callVolumeCalls int
}

func (r *countingRepo) FinancialTables(ctx context.Context) (*entities.RawTableSet, error) {
	r.financialCalls++
	return &entities.RawTableSet{
		Offers: entities.RawTable{Name: "offers", Columns: []string{"PERIODO"}, Rows: [][]string{{"01/03/2024"}}},
		Rates:  entities.RawTable{Name: "rates", Columns: []string{"PERIODO"}},
	}, nil
}

func (r *countingRepo) CallVolumeTable(ctx context.Context) (*entities.RawTable, error) {
	r.callVolumeCalls++
	return &entities.RawTable{Name: "call_volumes", Columns: []string{"MES"}}, nil
}

type memoryCache struct {
	data map[string][]byte
	ttls map[string]int
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.data[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	c.ttls[key] = expirationSeconds
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestCachedSource_FinancialTables_CachesSnapshot(t *testing.T) {
	repo := &countingRepo{}
	cache := newMemoryCache()
	cached := source.NewCachedSource(repo, cache, 120)

	first, err := cached.FinancialTables(context.Background())
	require.NoError(t, err)
	second, err := cached.FinancialTables(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.financialCalls)
	assert.Equal(t, first, second)

	for _, ttl := range cache.ttls {
		assert.Equal(t, 120, ttl)
	}
}

func TestCachedSource_CallVolumeTable_CachesSnapshot(t *testing.T) {
	repo := &countingRepo{}
	cached := source.NewCachedSource(repo, newMemoryCache(), 120)

	_, err := cached.CallVolumeTable(context.Background())
	require.NoError(t, err)
	_, err = cached.CallVolumeTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.callVolumeCalls)
}

func TestCachedSource_CacheFailureDegradesToFetch(t *testing.T) {
	repo := &countingRepo{}
	cache := newMemoryCache()
	cache.err = errors.New("redis down")
	cached := source.NewCachedSource(repo, cache, 120)

	set, err := cached.FinancialTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "offers", set.Offers.Name)
	assert.Equal(t, 1, repo.financialCalls)
}

func TestCachedSource_CorruptCacheEntryIgnored(t *testing.T) {
	repo := &countingRepo{}
	cache := newMemoryCache()
	cached := source.NewCachedSource(repo, cache, 120)

	// Poison every key, then confirm the fetch path still works
	_, err := cached.FinancialTables(context.Background())
	require.NoError(t, err)
	for key := range cache.data {
		cache.data[key] = []byte("{not json")
	}

	set, err := cached.FinancialTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "offers", set.Offers.Name)
	assert.Equal(t, 2, repo.financialCalls)
}
