package core

// ObjectiveKind distinguishes the appearance/capture mechanics of a
// map point of interest.
type ObjectiveKind string

const (
	// KindCapturable covers the dual-instance structures (hospital,
	// military center) and the many-instance refineries: active from
	// a single appear-time threshold, never deactivating.
	KindCapturable ObjectiveKind = "capturable"
	// KindTimedSpawn is a single structure appearing at a threshold
	// (energy core).
	KindTimedSpawn ObjectiveKind = "timed-spawn"
	// KindStagedBoss appears in ordered stages, each replacing the
	// previous one's bonus (canyon captain).
	KindStagedBoss ObjectiveKind = "staged-boss"
)

// Bonus describes a gameplay effect granted by holding an objective.
// Informational only; no planner logic consumes it.
type Bonus struct {
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Description string  `json:"description,omitempty"`
}

// Stage is one appearance of a staged boss objective.
type Stage struct {
	Time  float64 `json:"time"`
	Bonus Bonus   `json:"bonus"`
}

// Objective is a static, code-defined point of interest. Positions are
// normalized, unlike the raw pixel offsets the legacy plan format used
// for markings.
type Objective struct {
	Key  string        `json:"key"`
	Name string        `json:"name"`
	Icon string        `json:"icon"`
	Kind ObjectiveKind `json:"kind"`

	// AppearTime applies to threshold objectives; staged bosses use
	// Stages instead and leave it zero.
	AppearTime float64    `json:"appearTime"`
	Stages     []Stage    `json:"stages,omitempty"`
	Positions  []Position `json:"positions"`
	Bonuses    []Bonus    `json:"bonuses,omitempty"`

	MaxCapturable int    `json:"maxCapturable,omitempty"`
	Note          string `json:"note,omitempty"`
}

// Phase is an informational battle timeline milestone.
type Phase struct {
	Name        string  `json:"name"`
	Time        float64 `json:"time"`
	Description string  `json:"description"`
}
