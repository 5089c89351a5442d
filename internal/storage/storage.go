// internal/storage/storage.go
package storage

import "github.com/canyonplan/planner/pkg/core"

// Backend is the interface all plan storage implementations must satisfy.
// The plan collection is read and written whole: callers do a
// read-modify-write cycle per operation, mirroring how the browser
// build worked against local storage.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Plan collection
	LoadPlans() ([]core.Plan, error)
	SavePlans(plans []core.Plan) error

	// One-shot handoff: a plan staged by the admin view, consumed
	// once by the planner view and then cleared.
	SetPendingPlan(p *core.Plan) error
	TakePendingPlan() (*core.Plan, error)

	// UI language preference
	Language() (string, error)
	SetLanguage(lang string) error
}
