package plans

import (
	"time"

	"github.com/canyonplan/planner/pkg/core"
)

// px converts the default plan's original pixel offsets into
// normalized coordinates.
func px(x, y float64) core.Position {
	return core.Position{X: x / LegacyViewport, Y: y / LegacyViewport}
}

func dm(id int64, pos core.Position, team core.Team, appear float64) core.Marking {
	return core.Marking{ID: id, Position: pos, Team: team, AppearTime: appear, Duration: 10}
}

// DefaultPlan is the strategy preloaded when the stored collection is
// empty, so a first visit shows a worked example instead of a blank
// map.
func DefaultPlan() core.Plan {
	return core.Plan{
		ID:          1766778108599,
		Name:        "Canyon-Clash-Plan-2025-12-26",
		Description: "Strategy exported from Canyon Clash Planner",
		TeamTimings: core.TeamTimings{
			core.TeamA: 0,
			core.TeamB: 0,
			core.TeamC: 3,
			core.TeamD: 3,
		},
		TeamSpawn: core.SpawnBlueDown,
		Markings: []core.Marking{
			dm(1766776731170, px(328, 873), core.TeamD, 0),
			dm(1766776732010, px(438, 796), core.TeamD, 0),
			dm(1766776732907, px(267, 658), core.TeamD, 0),
			dm(1766776734336, px(582, 945), core.TeamD, 0),
			dm(1766776740110, px(344, 857), core.TeamD, 10),
			dm(1766776741084, px(204, 768), core.TeamD, 10),
			dm(1766776742135, px(410, 966), core.TeamD, 10),
			dm(1766776747235, px(419, 791), core.TeamD, 10),
			dm(1766776756391, px(517, 713), core.TeamD, 20),
			dm(1766776757539, px(209, 788), core.TeamD, 20),
			dm(1766776624188, px(793, 432), core.TeamC, 0),
			dm(1766776625788, px(642, 288), core.TeamC, 0),
			dm(1766776626750, px(917, 511), core.TeamC, 0),
			dm(1766776627379, px(876, 339), core.TeamC, 0),
			dm(1766776639593, px(795, 391), core.TeamC, 10),
			dm(1766776646733, px(424, 333), core.TeamC, 10),
			dm(1766776649296, px(858, 755), core.TeamC, 10),
			dm(1766776653167, px(838, 516), core.TeamC, 10),
			dm(1766776654127, px(648, 325), core.TeamC, 10),
			dm(1766776667957, px(673, 582), core.TeamC, 20),
			dm(1766776670461, px(830, 728), core.TeamC, 20),
			dm(1766776671749, px(411, 356), core.TeamC, 20),
			dm(1766775920022, px(823, 763), core.TeamA, 0),
			dm(1766775921761, px(895, 811), core.TeamA, 0),
			dm(1766775922658, px(779, 868), core.TeamA, 0),
			dm(1766775932934, px(437, 1004), core.TeamA, 10),
			dm(1766775934869, px(744, 812), core.TeamA, 10),
			dm(1766775935634, px(746, 880), core.TeamA, 10),
			dm(1766775936312, px(900, 813), core.TeamA, 10),
			dm(1766775943212, px(580, 722), core.TeamA, 20),
			dm(1766775946000, px(748, 832), core.TeamA, 20),
			dm(1766775949315, px(446, 1019), core.TeamA, 20),
			dm(1766776491684, px(394, 391), core.TeamB, 0),
			dm(1766776497819, px(204, 354), core.TeamB, 0),
			dm(1766776498916, px(289, 265), core.TeamB, 0),
			dm(1766776505501, px(135, 715), core.TeamB, 10),
			dm(1766776507044, px(312, 402), core.TeamB, 10),
			dm(1766776508560, px(278, 300), core.TeamB, 10),
			dm(1766776529546, px(130, 729), core.TeamB, 20),
			dm(1766777231756, px(476, 550), core.TeamB, 23),
			dm(1766777249684, px(406, 965), core.TeamD, 20),
			dm(1766777257847, px(445, 562), core.TeamB, 20),
			dm(1766777261037, px(299, 402), core.TeamB, 20),
		},
		CurrentTime:    20,
		MarkerDuration: 10,
		CreatedAt:      time.Date(2025, time.December, 26, 19, 41, 48, 599000000, time.UTC),
	}
}
