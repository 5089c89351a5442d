// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/canyonplan/planner/pkg/core"
)

// Backend stores the plan collection in memory. Used for tests and
// for running the planner without durable storage.
type Backend struct {
	mu       sync.RWMutex
	plans    []core.Plan
	pending  *core.Plan
	language string
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init() error  { return nil }
func (b *Backend) Close() error { return nil }

func (b *Backend) LoadPlans() ([]core.Plan, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return core.ClonePlans(b.plans), nil
}

func (b *Backend) SavePlans(plans []core.Plan) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.plans = core.ClonePlans(plans)
	return nil
}

func (b *Backend) SetPendingPlan(p *core.Plan) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p == nil {
		b.pending = nil
		return nil
	}
	cp := p.Clone()
	b.pending = &cp
	return nil
}

// TakePendingPlan returns and clears the staged plan; nil when none
// is staged.
func (b *Backend) TakePendingPlan() (*core.Plan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.pending
	b.pending = nil
	return p, nil
}

func (b *Backend) Language() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.language, nil
}

func (b *Backend) SetLanguage(lang string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.language = lang
	return nil
}
