package game

import (
	"context"
	"sort"
	"time"

	"scavenger-hunt-api/internal/cache"
	"scavenger-hunt-api/internal/models"
)

const catalogKey = "active"

// Catalog serves the ordered list of active tasks. Reads may be stale for up to the
// configured TTL; the order never changes during a game.
type Catalog struct {
	store Store
	cache *cache.TTL[string, []models.Task]
}

// NewCatalog builds a catalog over store. A ttl of zero reads through on every call.
func NewCatalog(store Store, ttl time.Duration) *Catalog {
	return &Catalog{
		store: store,
		cache: cache.NewTTL[string, []models.Task](ttl),
	}
}

// ListActiveTasks returns active tasks ascending by order. No tasks is not an error.
func (c *Catalog) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := c.cache.GetOrLoad(catalogKey, func() ([]models.Task, error) {
		tasks, err := c.store.ListActiveTasks(ctx)
		if err != nil {
			return nil, err
		}
		sorted := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Active {
				sorted = append(sorted, t)
			}
		}
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
		return sorted, nil
	})
	if err != nil {
		return nil, err
	}
	// callers get their own slice so the cached one stays intact
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// Invalidate forces the next read to go to the store.
func (c *Catalog) Invalidate() {
	c.cache.Invalidate(catalogKey)
}
