package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/spounge-ai/playerkits/internal/domain"
)

// MemoryKitRepository is an in-memory domain.KitRepository. Every load
// returns a fresh deep copy, so callers cannot mutate stored state without
// saving.
type MemoryKitRepository struct {
	mu      sync.Mutex
	prefix  string
	data    []byte
	LoadErr error
	SaveErr error
	Saves   int
}

func NewMemoryKitRepository(permissionPrefix string, kits ...*domain.Kit) *MemoryKitRepository {
	r := &MemoryKitRepository{prefix: permissionPrefix}
	r.store(&domain.Catalogue{Kits: kits})
	return r
}

func (r *MemoryKitRepository) LoadAll(context.Context) (*domain.Catalogue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	return r.decodeLocked()
}

func (r *MemoryKitRepository) decodeLocked() (*domain.Catalogue, error) {
	var cat domain.Catalogue
	if err := json.Unmarshal(r.data, &cat); err != nil {
		return nil, err
	}
	if cat.Kits == nil {
		cat.Kits = []*domain.Kit{}
	}
	cat.Classify(r.prefix)
	return &cat, nil
}

func (r *MemoryKitRepository) SaveAll(_ context.Context, cat *domain.Catalogue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.Saves++
	r.storeLocked(cat)
	return nil
}

func (r *MemoryKitRepository) HealthCheck(context.Context) error { return nil }

// Snapshot returns the stored catalogue.
func (r *MemoryKitRepository) Snapshot() *domain.Catalogue {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, err := r.decodeLocked()
	if err != nil {
		panic(err)
	}
	return cat
}

// Find returns the stored kit named name.
func (r *MemoryKitRepository) Find(name string) (*domain.Kit, bool) {
	for _, k := range r.Snapshot().Kits {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}

func (r *MemoryKitRepository) store(cat *domain.Catalogue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeLocked(cat)
}

func (r *MemoryKitRepository) storeLocked(cat *domain.Catalogue) {
	data, err := json.Marshal(cat)
	if err != nil {
		panic(err)
	}
	r.data = data
}
