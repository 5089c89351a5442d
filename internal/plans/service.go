// Package plans implements the persisted plan collection: CRUD,
// import/export, merging, and the one-shot plan handoff between the
// admin and planner views.
package plans

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/canyonplan/planner/internal/storage"
	"github.com/canyonplan/planner/pkg/core"
)

// UsageRecorder counts plan operations for the metrics pipeline.
type UsageRecorder interface {
	PlanSaved()
	PlansMerged(sources int)
	PlansImported(count int)
}

// Draft is the user-editable part of a plan; the service assigns
// identity and provenance on save.
type Draft struct {
	Name           string
	Description    string
	TeamTimings    core.TeamTimings
	TeamSpawn      core.SpawnSide
	Markings       []core.Marking
	CurrentTime    float64
	MarkerDuration float64
}

// Service owns the plan collection. Every operation is a full
// read-modify-write cycle against the backend, serialized by the
// service mutex so concurrent API calls cannot lose updates.
type Service struct {
	backend storage.Backend
	log     *slog.Logger
	maxTime float64

	usage UsageRecorder

	mu     sync.Mutex
	lastID int64

	now          func() time.Time
	newShareCode func() string
}

// NewService creates a plan service on top of a storage backend.
func NewService(backend storage.Backend, log *slog.Logger, maxTime float64) *Service {
	return &Service{
		backend:      backend,
		log:          log,
		maxTime:      maxTime,
		now:          time.Now,
		newShareCode: uuid.NewString,
	}
}

// SetUsageRecorder attaches an operation counter. Optional.
func (s *Service) SetUsageRecorder(r UsageRecorder) {
	s.usage = r
}

// List returns the stored collection. A backend read failure logs and
// degrades to an empty collection; the tool is advisory and must stay
// usable without its history.
func (s *Service) List() []core.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get looks up one plan by id.
func (s *Service) Get(id int64) (core.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.load() {
		if p.ID == id {
			return p, true
		}
	}
	return core.Plan{}, false
}

// Save validates the draft, assigns identity, and appends it to the
// collection.
func (s *Service) Save(draft Draft) (core.Plan, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return core.Plan{}, fmt.Errorf("%w: plan name required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.fromDraft(draft)
	p.ID = s.nextID()
	p.CreatedAt = s.now()
	p.ShareCode = s.newShareCode()

	collection := append(s.load(), p)
	s.persist(collection)

	if s.usage != nil {
		s.usage.PlanSaved()
	}
	s.log.Info("Plan saved", "id", p.ID, "name", p.Name, "markings", len(p.Markings))
	return p, nil
}

// Update replaces the full record matching id, keeping its identity
// and creation time. A missing id is a silent no-op: the second
// return value reports whether anything was replaced.
func (s *Service) Update(id int64, draft Draft) (core.Plan, bool, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return core.Plan{}, false, fmt.Errorf("%w: plan name required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.load()
	for i, existing := range collection {
		if existing.ID != id {
			continue
		}
		p := s.fromDraft(draft)
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.ShareCode = existing.ShareCode
		p.MergedFromPlans = existing.MergedFromPlans
		collection[i] = p
		s.persist(collection)
		return p, true, nil
	}
	return core.Plan{}, false, nil
}

// Delete removes the plan with the given id, reporting whether it
// existed.
func (s *Service) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.load()
	for i, p := range collection {
		if p.ID == id {
			collection = append(collection[:i], collection[i+1:]...)
			s.persist(collection)
			s.log.Info("Plan deleted", "id", id)
			return true
		}
	}
	return false
}

// Merge combines two or more stored plans into a new one: markings
// concatenated with ids preserved, team timings averaged (missing
// values count as 0, result rounded to the nearest minute), spawn
// side taken from the first source. Source plans are kept.
func (s *Service) Merge(ids []int64, newName string) (core.Plan, error) {
	if len(ids) < 2 {
		return core.Plan{}, fmt.Errorf("%w: merge needs at least 2 plans", ErrValidation)
	}
	if strings.TrimSpace(newName) == "" {
		return core.Plan{}, fmt.Errorf("%w: plan name required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.load()
	byID := make(map[int64]core.Plan, len(collection))
	for _, p := range collection {
		byID[p.ID] = p
	}

	sources := make([]core.Plan, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return core.Plan{}, fmt.Errorf("%w: unknown plan id %d", ErrValidation, id)
		}
		sources = append(sources, p)
	}

	var markings []core.Marking
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		markings = append(markings, append([]core.Marking(nil), src.Markings...)...)
		names = append(names, src.Name)
	}

	timings := make(core.TeamTimings, 4)
	for _, team := range core.Teams() {
		var sum float64
		for _, src := range sources {
			sum += src.TeamTimings[team]
		}
		timings[team] = math.Round(sum / float64(len(sources)))
	}

	merged := core.Plan{
		ID:              s.nextID(),
		Name:            newName,
		Description:     "Merged from: " + strings.Join(names, ", "),
		TeamTimings:     timings,
		TeamSpawn:       sources[0].TeamSpawn,
		Markings:        markings,
		CurrentTime:     0,
		MarkerDuration:  sources[0].MarkerDuration,
		CreatedAt:       s.now(),
		ShareCode:       s.newShareCode(),
		MergedFromPlans: append([]int64(nil), ids...),
	}

	s.persist(append(collection, merged))

	if s.usage != nil {
		s.usage.PlansMerged(len(sources))
	}
	s.log.Info("Plans merged", "id", merged.ID, "sources", len(sources), "markings", len(markings))
	return merged, nil
}

// ImportMany parses an import document and appends every plan it
// contains. All-or-nothing: one bad plan rejects the whole document.
// Ids are preserved and duplicates are permitted.
func (s *Service) ImportMany(raw []byte) ([]core.Plan, error) {
	imported, err := DecodePlans(raw, s.maxTime)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist(append(s.load(), imported...))

	if s.usage != nil {
		s.usage.PlansImported(len(imported))
	}
	s.log.Info("Plans imported", "count", len(imported))
	return imported, nil
}

// ExportAll serializes the full collection. Pure: no mutation.
func (s *Service) ExportAll() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EncodePlans(s.load())
}

// EnsureDefault seeds an empty collection with the bundled example
// plan.
func (s *Service) EnsureDefault() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.load()) > 0 {
		return
	}
	s.persist([]core.Plan{DefaultPlan()})
	s.log.Info("Seeded default plan")
}

// StagePlan stores a plan for one-shot pickup by the planner view.
func (s *Service) StagePlan(p core.Plan) error {
	return s.backend.SetPendingPlan(&p)
}

// TakeStagedPlan returns and clears the staged plan; nil when none.
func (s *Service) TakeStagedPlan() (*core.Plan, error) {
	return s.backend.TakePendingPlan()
}

// Language returns the stored UI language preference.
func (s *Service) Language() string {
	lang, err := s.backend.Language()
	if err != nil {
		s.log.Error("Failed to read language", "error", err)
		return ""
	}
	return lang
}

// SetLanguage stores the UI language preference.
func (s *Service) SetLanguage(lang string) error {
	return s.backend.SetLanguage(lang)
}

func (s *Service) fromDraft(d Draft) core.Plan {
	timings := d.TeamTimings.Clone()
	if len(timings) == 0 {
		timings = core.DefaultTeamTimings()
	}
	spawn := d.TeamSpawn
	if !spawn.Valid() {
		spawn = core.SpawnBlueDown
	}
	return core.Plan{
		Name:           d.Name,
		Description:    d.Description,
		TeamTimings:    timings,
		TeamSpawn:      spawn,
		Markings:       append([]core.Marking(nil), d.Markings...),
		CurrentTime:    d.CurrentTime,
		MarkerDuration: d.MarkerDuration,
	}
}

// nextID assigns creation-timestamp ids, bumped past the last one so
// two saves in the same millisecond cannot collide. Caller holds s.mu.
func (s *Service) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// load reads the collection; failures degrade to empty.
func (s *Service) load() []core.Plan {
	plans, err := s.backend.LoadPlans()
	if err != nil {
		s.log.Error("Failed to load plans, starting empty", "error", err)
		return nil
	}
	return plans
}

// persist writes the collection; failures are logged and swallowed,
// the in-flight operation still returns its result.
func (s *Service) persist(collection []core.Plan) {
	if err := s.backend.SavePlans(collection); err != nil {
		s.log.Error("Failed to persist plans", "error", err)
	}
}
