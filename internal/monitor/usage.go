package monitor

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/canyonplan/planner/pkg/core"
)

// Usage counts planner operations and forwards them as Influx points.
// A nil *Usage is a valid no-op recorder.
type Usage struct {
	manager *Manager
	now     func() time.Time
}

// NewUsage creates a usage recorder on top of a connected manager.
func NewUsage(manager *Manager) *Usage {
	return &Usage{manager: manager, now: time.Now}
}

// PlanSaved counts one plan save.
func (u *Usage) PlanSaved() {
	u.count("plan_saved", 1, nil)
}

// PlansMerged counts one merge of the given number of source plans.
func (u *Usage) PlansMerged(sources int) {
	u.count("plans_merged", 1, map[string]interface{}{"sources": sources})
}

// PlansImported counts one import of the given number of plans.
func (u *Usage) PlansImported(count int) {
	u.count("plans_imported", 1, map[string]interface{}{"plans": count})
}

// MarkingPlaced counts one marking placement for a team.
func (u *Usage) MarkingPlaced(team core.Team) {
	u.write("marking_placed", map[string]string{"team": string(team)}, map[string]interface{}{"count": 1})
}

// ConversionFailure counts one failed timezone conversion.
func (u *Usage) ConversionFailure(tz string) {
	u.write("conversion_failure", map[string]string{"tz": tz}, map[string]interface{}{"count": 1})
}

func (u *Usage) count(op string, n int, extra map[string]interface{}) {
	fields := map[string]interface{}{"count": n}
	for k, v := range extra {
		fields[k] = v
	}
	u.write(op, nil, fields)
}

func (u *Usage) write(op string, tags map[string]string, fields map[string]interface{}) {
	if u == nil || u.manager == nil {
		return
	}
	if tags == nil {
		tags = map[string]string{}
	}
	tags["op"] = op

	point := influxdb2.NewPoint("planner_usage", tags, fields, u.now())
	if err := u.manager.WritePoint(context.Background(), BucketUsage, point); err != nil {
		u.manager.Logger.Error().Err(err).Str("op", op).Msg("Error recording usage point")
	}
}
