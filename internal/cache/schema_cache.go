package cache

import (
	"context"
	"sync"
	"time"

	"game-data-hub/internal/model"
)

// SchemaCache keeps table schemas (a table with its ordered columns) so reads
// on the hot data and codegen paths skip the column query
type SchemaCache struct {
	cache      map[uint]*CachedSchema
	mutex      sync.RWMutex
	ttl        time.Duration
	cleanupInt time.Duration
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// CachedSchema represents a cached table schema
type CachedSchema struct {
	TableID   uint
	Table     *model.Table
	CachedAt  time.Time
	ExpiresAt time.Time
}

// SchemaLoader loads a schema on a cache miss
type SchemaLoader func(ctx context.Context, tableID uint) (*model.Table, error)

// NewSchemaCache creates a new schema cache
func NewSchemaCache(ttl time.Duration) *SchemaCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &SchemaCache{
		cache:      make(map[uint]*CachedSchema),
		ttl:        ttl,
		cleanupInt: 10 * time.Minute,
		stopChan:   make(chan struct{}),
	}
}

// Start sweeps expired schemas in the background until ctx is done or Stop
// is called. It returns immediately.
func (sc *SchemaCache) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sc.cleanupInt)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-sc.stopChan:
				return
			case <-ticker.C:
				sc.cleanupExpired()
			}
		}
	}()
}

// Stop stops the background cleanup process
func (sc *SchemaCache) Stop() {
	sc.stopOnce.Do(func() { close(sc.stopChan) })
}

// Get returns a copy of the cached schema for a table
func (sc *SchemaCache) Get(tableID uint) (*model.Table, bool) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	cached, exists := sc.cache[tableID]
	if !exists || time.Now().After(cached.ExpiresAt) {
		return nil, false
	}
	return cloneTable(cached.Table), true
}

// Set stores a copy of table
func (sc *SchemaCache) Set(table *model.Table) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	now := time.Now()
	sc.cache[table.ID] = &CachedSchema{
		TableID:   table.ID,
		Table:     cloneTable(table),
		CachedAt:  now,
		ExpiresAt: now.Add(sc.ttl),
	}
}

// Invalidate drops the entry for a table
func (sc *SchemaCache) Invalidate(tableID uint) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	delete(sc.cache, tableID)
}

// InvalidateProject drops every entry belonging to a project
func (sc *SchemaCache) InvalidateProject(projectID uint) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	for id, cached := range sc.cache {
		if cached.Table.ProjectID == projectID {
			delete(sc.cache, id)
		}
	}
}

// Refresh returns the cached schema or loads and caches it
func (sc *SchemaCache) Refresh(ctx context.Context, tableID uint, load SchemaLoader) (*model.Table, error) {
	if table, ok := sc.Get(tableID); ok {
		return table, nil
	}

	table, err := load(ctx, tableID)
	if err != nil {
		return nil, err
	}

	sc.Set(table)
	return table, nil
}

func (sc *SchemaCache) cleanupExpired() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	now := time.Now()
	for id, cached := range sc.cache {
		if now.After(cached.ExpiresAt) {
			delete(sc.cache, id)
		}
	}
}

// GetStats returns cache statistics
func (sc *SchemaCache) GetStats() CacheStats {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	totalEntries := len(sc.cache)
	expiredEntries := 0
	now := time.Now()

	for _, cached := range sc.cache {
		if now.After(cached.ExpiresAt) {
			expiredEntries++
		}
	}

	return CacheStats{
		TotalEntries:   totalEntries,
		ActiveEntries:  totalEntries - expiredEntries,
		ExpiredEntries: expiredEntries,
		TTL:            sc.ttl,
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalEntries   int           `json:"totalEntries"`
	ActiveEntries  int           `json:"activeEntries"`
	ExpiredEntries int           `json:"expiredEntries"`
	TTL            time.Duration `json:"ttl"`
}

// Clear clears all cache entries
func (sc *SchemaCache) Clear() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	sc.cache = make(map[uint]*CachedSchema)
}

func cloneTable(t *model.Table) *model.Table {
	out := *t
	out.Columns = make([]model.Column, len(t.Columns))
	copy(out.Columns, t.Columns)
	return &out
}
