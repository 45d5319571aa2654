package index

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/utils/logging"
)

// Index holds a snapshot of the enumerable memories. The snapshot is only
// replaced by an explicit Refresh; accessors never touch storage, so
// staleness is visible and under the caller's control.
type Index struct {
	repo repository.Repository

	mu       sync.RWMutex
	snapshot []model.MemoryID
}

// New creates an empty Index; call Refresh to populate it
func New(repo repository.Repository) *Index {
	return &Index{repo: repo}
}

// Refresh re-derives the set of memories from the repository and replaces
// the snapshot, ordered by ID ascending (creation order) rather than the
// unspecified filesystem enumeration order.
func (x *Index) Refresh(ctx context.Context) error {
	ids, err := x.repo.List()
	if err != nil {
		return err
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	x.mu.Lock()
	x.snapshot = ids
	x.mu.Unlock()

	logging.From(ctx).Debug("memory index refreshed", "count", len(ids))
	return nil
}

// Count returns the number of memories in the snapshot
func (x *Index) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.snapshot)
}

// Get returns the i-th memory of the snapshot in creation order
func (x *Index) Get(i int) (model.MemoryID, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if i < 0 || i >= len(x.snapshot) {
		return "", goerr.New("memory index out of range",
			goerr.V("index", i), goerr.V("count", len(x.snapshot)))
	}
	return x.snapshot[i], nil
}

// Memories returns a copy of the snapshot
func (x *Index) Memories() []model.MemoryID {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]model.MemoryID, len(x.snapshot))
	copy(out, x.snapshot)
	return out
}
