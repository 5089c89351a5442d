// internal/storage/sql/sql.go
package sql

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/canyonplan/planner/internal/config"
	"github.com/canyonplan/planner/pkg/core"
)

// PlanRecord is the relational shape of a plan. Nested collections
// are stored as JSON columns; the planner always reads plans whole,
// so there is nothing to gain from normalizing markings into rows.
type PlanRecord struct {
	ID             int64 `gorm:"primaryKey"`
	Name           string
	Description    string
	TeamTimings    datatypes.JSON
	TeamSpawn      string
	Markings       datatypes.JSON
	CurrentTime    float64
	MarkerDuration float64
	CreatedAt      time.Time
	ShareCode      string
	MergedFrom     datatypes.JSON

	// Position preserves collection order across save/load.
	Position int
}

// KVRecord holds the non-plan keys: language and the pending plan
// handoff.
type KVRecord struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const (
	kvLanguage    = "language"
	kvPendingPlan = "pendingPlanToLoad"
)

// Backend persists plans in a relational database: Postgres when a
// host is configured and reachable, otherwise a local SQLite file.
type Backend struct {
	cfg config.SQLConfig
	log zerolog.Logger

	db              *gorm.DB
	isValid         bool
	shouldSaveLocal bool
}

// New creates a new SQL backend. Connection happens in Init.
func New(cfg config.SQLConfig, log zerolog.Logger) *Backend {
	return &Backend{cfg: cfg, log: log}
}

// Init establishes the database connection, falling back to SQLite if
// Postgres is not configured or fails, then migrates the schema.
func (b *Backend) Init() error {
	var err error

	if b.cfg.Host != "" {
		b.db, err = b.openPostgres()
		if err != nil {
			b.log.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
		}
	}
	if b.db == nil {
		b.shouldSaveLocal = true
		b.db, err = b.openSqlite(b.cfg.Path)
		if err != nil || b.db == nil {
			b.isValid = false
			return fmt.Errorf("failed to get local SQLite DB: %s", err)
		}
	}

	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %s", err)
	}
	if err := sqlDB.Ping(); err != nil {
		b.isValid = false
		return fmt.Errorf("failed to validate connection: %s", err)
	}
	if !b.shouldSaveLocal {
		sqlDB.SetMaxOpenConns(10)
	}

	if err := b.db.AutoMigrate(&PlanRecord{}, &KVRecord{}); err != nil {
		b.isValid = false
		return fmt.Errorf("failed to migrate schema: %s", err)
	}

	b.isValid = true
	b.log.Info().Msg("Connected to database")
	return nil
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *Backend) openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		b.cfg.Host,
		b.cfg.Port,
		b.cfg.Username,
		b.cfg.Password,
		b.cfg.Database,
	)

	b.log.Debug().Msgf("Connecting to Postgres DB at '%s'", dsn)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// openSqlite opens a SQLite database at path; an empty path uses an
// in-memory database.
func (b *Backend) openSqlite(path string) (*gorm.DB, error) {
	dsn := "file::memory:?cache=shared"
	if path != "" {
		dsn = path
		b.log.Info().Str("path", path).Msg("Using local SQLite DB")
	} else {
		b.log.Info().Msg("Using in-memory SQLite DB")
	}

	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

func (b *Backend) LoadPlans() ([]core.Plan, error) {
	var records []PlanRecord
	if err := b.db.Order("position asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	plans := make([]core.Plan, 0, len(records))
	for _, rec := range records {
		p, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// SavePlans replaces the stored collection in one transaction.
func (b *Backend) SavePlans(plans []core.Plan) error {
	records := make([]PlanRecord, 0, len(plans))
	for i, p := range plans {
		rec, err := toRecord(p, i)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&PlanRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear plans: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to store plans: %w", err)
		}
		return nil
	})
}

func (b *Backend) SetPendingPlan(p *core.Plan) error {
	if p == nil {
		return b.deleteKV(kvPendingPlan)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode pending plan: %w", err)
	}
	return b.setKV(kvPendingPlan, string(raw))
}

func (b *Backend) TakePendingPlan() (*core.Plan, error) {
	val, ok, err := b.getKV(kvPendingPlan)
	if err != nil || !ok {
		return nil, err
	}
	if err := b.deleteKV(kvPendingPlan); err != nil {
		return nil, err
	}

	var p core.Plan
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending plan: %w", err)
	}
	return &p, nil
}

func (b *Backend) Language() (string, error) {
	val, _, err := b.getKV(kvLanguage)
	return val, err
}

func (b *Backend) SetLanguage(lang string) error {
	return b.setKV(kvLanguage, lang)
}

func (b *Backend) setKV(key, value string) error {
	rec := KVRecord{Key: key, Value: value}
	return b.db.Save(&rec).Error
}

func (b *Backend) getKV(key string) (string, bool, error) {
	var rec KVRecord
	err := b.db.First(&rec, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

func (b *Backend) deleteKV(key string) error {
	return b.db.Delete(&KVRecord{}, "key = ?", key).Error
}

func toRecord(p core.Plan, position int) (PlanRecord, error) {
	timings, err := json.Marshal(p.TeamTimings)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode team timings: %w", err)
	}
	markings, err := json.Marshal(p.Markings)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode markings: %w", err)
	}
	mergedFrom, err := json.Marshal(p.MergedFromPlans)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode merge sources: %w", err)
	}

	return PlanRecord{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		TeamTimings:    datatypes.JSON(timings),
		TeamSpawn:      string(p.TeamSpawn),
		Markings:       datatypes.JSON(markings),
		CurrentTime:    p.CurrentTime,
		MarkerDuration: p.MarkerDuration,
		CreatedAt:      p.CreatedAt,
		ShareCode:      p.ShareCode,
		MergedFrom:     datatypes.JSON(mergedFrom),
		Position:       position,
	}, nil
}

func fromRecord(rec PlanRecord) (core.Plan, error) {
	p := core.Plan{
		ID:             rec.ID,
		Name:           rec.Name,
		Description:    rec.Description,
		TeamSpawn:      core.SpawnSide(rec.TeamSpawn),
		CurrentTime:    rec.CurrentTime,
		MarkerDuration: rec.MarkerDuration,
		CreatedAt:      rec.CreatedAt,
		ShareCode:      rec.ShareCode,
	}
	if len(rec.TeamTimings) > 0 {
		if err := json.Unmarshal(rec.TeamTimings, &p.TeamTimings); err != nil {
			return core.Plan{}, fmt.Errorf("failed to decode team timings: %w", err)
		}
	}
	if len(rec.Markings) > 0 {
		if err := json.Unmarshal(rec.Markings, &p.Markings); err != nil {
			return core.Plan{}, fmt.Errorf("failed to decode markings: %w", err)
		}
	}
	if len(rec.MergedFrom) > 0 {
		if err := json.Unmarshal(rec.MergedFrom, &p.MergedFromPlans); err != nil {
			return core.Plan{}, fmt.Errorf("failed to decode merge sources: %w", err)
		}
	}
	return p, nil
}
