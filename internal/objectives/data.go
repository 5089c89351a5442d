package objectives

import "github.com/canyonplan/planner/pkg/core"

// defaultObjectives is the canyon's objective catalogue. Positions
// are fractions of the map image, refined through calibration.
var defaultObjectives = []core.Objective{
	{
		Key:        "militaryCenter",
		Name:       "Military Centers",
		Icon:       "🎖️",
		Kind:       core.KindCapturable,
		AppearTime: 10,
		Bonuses: []core.Bonus{
			{Type: "points", Value: 1800, Unit: "/min"},
			{Type: "damage", Value: 30, Unit: "%"},
		},
		MaxCapturable: 2,
		Note:          "Capture both for +60% damage",
		Positions: []core.Position{
			{X: 0.138, Y: 0.693},
			{X: 0.349, Y: 0.908},
		},
	},
	{
		Key:        "hospital",
		Name:       "Hospital",
		Icon:       "🏥",
		Kind:       core.KindCapturable,
		AppearTime: 0,
		Bonuses: []core.Bonus{
			{Type: "healing", Value: 50, Unit: "%"},
		},
		MaxCapturable: 2,
		Note:          "Capture both for +100% healing",
		Positions: []core.Position{
			{X: 0.31, Y: 0.33},
			{X: 0.7, Y: 0.697},
		},
	},
	{
		Key:  "captain",
		Name: "Canyon Captain (Raid Boss)",
		Icon: "💀",
		Kind: core.KindStagedBoss,
		Stages: []core.Stage{
			{Time: 5, Bonus: core.Bonus{Type: "speed", Value: 50, Unit: "%", Description: "March Speed"}},
			{Time: 15, Bonus: core.Bonus{Type: "points", Value: 50, Unit: "%", Description: "Points Yield"}},
			{Time: 25, Bonus: core.Bonus{Type: "damage", Value: 25, Unit: "%", Description: "Damage"}},
		},
		Positions: []core.Position{
			{X: 0.865, Y: 0.177},
		},
	},
	{
		Key:        "energyCore",
		Name:       "Energy Core Tower",
		Icon:       "⚡",
		Kind:       core.KindTimedSpawn,
		AppearTime: 20,
		Bonuses: []core.Bonus{
			{Type: "points", Value: 100000, Unit: "pts"},
		},
		Positions: []core.Position{
			{X: 0.5, Y: 0.6},
		},
	},
	{
		Key:        "refinery",
		Name:       "Water Refinery",
		Icon:       "💧",
		Kind:       core.KindCapturable,
		AppearTime: 0,
		Bonuses: []core.Bonus{
			{Type: "points", Value: 600, Unit: "/min"},
		},
		Note: "Provides 600 points/minute",
		Positions: []core.Position{
			{X: 0.232, Y: 0.321},
			{X: 0.298, Y: 0.252},
			{X: 0.532, Y: 0.243},
			{X: 0.667, Y: 0.379},
			{X: 0.791, Y: 0.502},
			{X: 0.745, Y: 0.301},
			{X: 0.768, Y: 0.757},
			{X: 0.702, Y: 0.817},
			{X: 0.472, Y: 0.833},
			{X: 0.337, Y: 0.7},
			{X: 0.206, Y: 0.571},
			{X: 0.255, Y: 0.775},
		},
	},
}

var battlePhases = []core.Phase{
	{Name: "Preparation", Time: 0, Description: "Plan routes and assign teams before the gates open"},
	{Name: "Phase I begins", Time: 2, Description: "Gates open, refineries and hospitals contested"},
	{Name: "Free Teleport I", Time: 6, Description: "First free teleport window"},
	{Name: "Free Teleport II", Time: 12, Description: "Second free teleport window"},
	{Name: "Free Teleport III", Time: 18, Description: "Third free teleport window"},
	{Name: "Energy Core", Time: 20, Description: "Energy Core Tower becomes capturable"},
	{Name: "Battle end", Time: 40, Description: "Scoring closes"},
}
