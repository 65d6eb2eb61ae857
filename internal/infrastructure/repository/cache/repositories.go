package cache

import (
	"context"
	"strconv"

	"github.com/fplmetric/fplmetric/internal/domain/snapshot"
	basecache "github.com/fplmetric/fplmetric/internal/platform/cache"
)

const snapshotKeyPrefix = "snapshots:"

// SnapshotRepository caches the read queries of the snapshot store. Writes
// pass through and evict every cached reconstruction, so a completed
// collection run is visible on the next read.
type SnapshotRepository struct {
	next  snapshot.Repository
	cache *basecache.Store
}

func NewSnapshotRepository(next snapshot.Repository, cache *basecache.Store) *SnapshotRepository {
	return &SnapshotRepository{next: next, cache: cache}
}

func (r *SnapshotRepository) AppendBatch(ctx context.Context, rows []snapshot.PlayerSnapshot) error {
	if err := r.next.AppendBatch(ctx, rows); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, snapshotKeyPrefix)
	return nil
}

func (r *SnapshotRepository) LatestPerPlayer(ctx context.Context) ([]snapshot.PlayerSnapshot, error) {
	v, err := r.cache.GetOrLoad(ctx, snapshotKeyPrefix+"latest", func(ctx context.Context) (any, error) {
		items, err := r.next.LatestPerPlayer(ctx)
		if err != nil {
			return nil, err
		}
		return append([]snapshot.PlayerSnapshot(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]snapshot.PlayerSnapshot)
	return append([]snapshot.PlayerSnapshot(nil), items...), nil
}

func (r *SnapshotRepository) LastNPerPlayer(ctx context.Context, n int) ([]snapshot.RankedSnapshot, error) {
	key := snapshotKeyPrefix + "last:" + strconv.Itoa(n)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.LastNPerPlayer(ctx, n)
		if err != nil {
			return nil, err
		}
		return append([]snapshot.RankedSnapshot(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]snapshot.RankedSnapshot)
	return append([]snapshot.RankedSnapshot(nil), items...), nil
}
