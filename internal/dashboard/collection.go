// Package dashboard holds the project record lifecycle: the in-memory
// collection refreshed from the remote store, the filter/sort pipeline that
// derives the displayed list, and the edit session driving create and update
// saves.
package dashboard

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"mgc-projects-api/internal/models"
)

// Gateway is the remote store surface the collection and edit session depend
// on. *store.Store satisfies it; tests substitute a stub.
type Gateway interface {
	List(ctx context.Context) ([]models.ProjectRow, error)
	Create(ctx context.Context, payload models.ProjectRow) (models.ProjectRow, error)
	Update(ctx context.Context, id int64, payload models.ProjectRow) (models.ProjectRow, error)
	Delete(ctx context.Context, id int64) error
}

// Snapshotter receives a JSON snapshot of the collection after every change.
// Writes are best effort and never read back as the source of truth.
type Snapshotter interface {
	Put(key string, value []byte) error
}

// MirrorKey is the fixed key the collection snapshot is written under.
const MirrorKey = "crediativos-projects"

// Collection owns the authoritative in-memory set of projects for the
// session. The source this was ported from ran single-threaded; here the
// collection is reached from concurrent HTTP handlers, so it guards its own
// state. Overlapping refreshes are still last-writer-wins.
type Collection struct {
	gw     Gateway
	mirror Snapshotter

	mu       sync.RWMutex
	projects []models.Project
	loading  bool
}

// NewCollection creates an empty collection. mirror may be nil.
func NewCollection(gw Gateway, mirror Snapshotter) *Collection {
	return &Collection{gw: gw, mirror: mirror}
}

// Refresh replaces the collection wholesale from the gateway. On failure the
// prior contents are left untouched.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	rows, err := c.gw.List(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		return err
	}
	mapped := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		mapped = append(mapped, models.FromRow(row))
	}
	c.projects = mapped
	c.mu.Unlock()

	c.writeMirror()
	return nil
}

// Loading reports whether a refresh is in flight.
func (c *Collection) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Projects returns a copy of the full, unfiltered collection.
func (c *Collection) Projects() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// ByID returns the project with the given id, if present.
func (c *Collection) ByID(id int64) (models.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// Len returns the number of projects held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.projects)
}

// Add appends a newly persisted project.
func (c *Collection) Add(p models.Project) {
	c.mu.Lock()
	c.projects = append(c.projects, p)
	c.mu.Unlock()
	c.writeMirror()
}

// Replace swaps the entry whose id matches p. A miss is a no-op.
func (c *Collection) Replace(p models.Project) {
	c.mu.Lock()
	for i := range c.projects {
		if c.projects[i].ID == p.ID {
			c.projects[i] = p
		}
	}
	c.mu.Unlock()
	c.writeMirror()
}

// RemoveByID drops the entry with the given id. Removing an absent id leaves
// the collection unchanged.
func (c *Collection) RemoveByID(id int64) {
	c.mu.Lock()
	kept := c.projects[:0]
	for _, p := range c.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.projects = kept
	c.mu.Unlock()
	c.writeMirror()
}

// Delete removes the row remotely and reconciles the collection. A gateway
// failure leaves the id in place.
func (c *Collection) Delete(ctx context.Context, id int64) error {
	if err := c.gw.Delete(ctx, id); err != nil {
		return err
	}
	c.RemoveByID(id)
	return nil
}

// Areas returns the distinct requesting areas present in the collection,
// sorted. The presentation layer builds its area filter choices from these.
func (c *Collection) Areas() []string {
	c.mu.RLock()
	seen := map[string]bool{}
	for _, p := range c.projects {
		if p.AreaSolicitante != "" {
			seen[p.AreaSolicitante] = true
		}
	}
	c.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for area := range seen {
		out = append(out, area)
	}
	sort.Strings(out)
	return out
}

// writeMirror persists the full collection under MirrorKey. Mirror failures
// are swallowed: the snapshot is a reload convenience, not part of any
// invariant.
func (c *Collection) writeMirror() {
	if c.mirror == nil {
		return
	}
	data, err := json.Marshal(c.Projects())
	if err != nil {
		return
	}
	_ = c.mirror.Put(MirrorKey, data)
}
