// internal/storage/file/file.go
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/canyonplan/planner/internal/config"
	"github.com/canyonplan/planner/pkg/core"
)

// document is the on-disk layout: the same single-namespace key-value
// shape the browser build kept in local storage.
type document struct {
	Plans             []core.Plan `json:"plans"`
	Language          string      `json:"language,omitempty"`
	PendingPlanToLoad *core.Plan  `json:"pendingPlanToLoad,omitempty"`
}

// Backend persists the plan collection as a single JSON file. Every
// write replaces the whole document atomically (temp file + rename),
// so a crash mid-write never leaves a truncated collection.
type Backend struct {
	cfg config.FileConfig
	mu  sync.Mutex
}

// New creates a new file backend
func New(cfg config.FileConfig) *Backend {
	return &Backend{cfg: cfg}
}

func (b *Backend) Init() error {
	dir := filepath.Dir(b.cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}
	return nil
}

func (b *Backend) Close() error { return nil }

func (b *Backend) LoadPlans() ([]core.Plan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return nil, err
	}
	return doc.Plans, nil
}

func (b *Backend) SavePlans(plans []core.Plan) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return err
	}
	doc.Plans = core.ClonePlans(plans)
	return b.write(doc)
}

func (b *Backend) SetPendingPlan(p *core.Plan) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return err
	}
	if p == nil {
		doc.PendingPlanToLoad = nil
	} else {
		cp := p.Clone()
		doc.PendingPlanToLoad = &cp
	}
	return b.write(doc)
}

func (b *Backend) TakePendingPlan() (*core.Plan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return nil, err
	}
	p := doc.PendingPlanToLoad
	if p == nil {
		return nil, nil
	}
	doc.PendingPlanToLoad = nil
	if err := b.write(doc); err != nil {
		return nil, err
	}
	return p, nil
}

func (b *Backend) Language() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return "", err
	}
	return doc.Language, nil
}

func (b *Backend) SetLanguage(lang string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return err
	}
	doc.Language = lang
	return b.write(doc)
}

// read loads the document; a missing file yields an empty document.
func (b *Backend) read() (*document, error) {
	raw, err := os.ReadFile(b.cfg.Path)
	if os.IsNotExist(err) {
		return &document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}
	return &doc, nil
}

func (b *Backend) write(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan file: %w", err)
	}

	tmp := b.cfg.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	if err := os.Rename(tmp, b.cfg.Path); err != nil {
		return fmt.Errorf("failed to replace plan file: %w", err)
	}
	return nil
}
