// Package taskcache is a time-boxed, single-slot cache of the task
// collection. It is read-through on expiry and write-invalidate: mutations
// never patch the snapshot in place, they drop it so the next read
// re-fetches.
package taskcache

import (
	"context"
	"sync"
	"time"

	"taskify/internal/models"
)

const DefaultTTL = 30 * time.Second

type entry struct {
	tasks     []models.Task
	fetchedAt time.Time
}

// Cache holds at most one snapshot. It is an explicitly owned state cell:
// the API client receives it by injection, there is no package-level slot.
type Cache struct {
	mu    sync.Mutex
	entry *entry
	ttl   time.Duration
	now   func() time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, now: time.Now}
}

// Read returns the cached snapshot when it is fresh and force is unset;
// otherwise it calls fetch, replaces the slot wholesale, and returns the
// new snapshot.
func (c *Cache) Read(ctx context.Context, force bool, fetch func(ctx context.Context) ([]models.Task, error)) ([]models.Task, error) {
	c.mu.Lock()
	if !force && c.entry != nil && c.now().Sub(c.entry.fetchedAt) < c.ttl {
		tasks := copyTasks(c.entry.tasks)
		c.mu.Unlock()
		return tasks, nil
	}
	c.mu.Unlock()

	tasks, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entry = &entry{tasks: copyTasks(tasks), fetchedAt: c.now()}
	c.mu.Unlock()

	return tasks, nil
}

// Invalidate clears the slot unconditionally. Idempotent.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}

// Cached reports whether a snapshot is currently held, fresh or not.
func (c *Cache) Cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry != nil
}

func copyTasks(tasks []models.Task) []models.Task {
	copied := make([]models.Task, len(tasks))
	copy(copied, tasks)
	return copied
}
