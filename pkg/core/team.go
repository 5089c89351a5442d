package core

// Team identifies one of the four alliance squads a marking belongs to.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
	TeamC Team = "C"
	TeamD Team = "D"
)

// TeamRole describes what a squad is meant to do during the battle.
type TeamRole string

const (
	// RoleBaseDefense squads hold a fixed structure (hospital, military center).
	RoleBaseDefense TeamRole = "base-defense"
	// RoleManeuver squads roam toward objectives or the enemy spawn.
	RoleManeuver TeamRole = "maneuver"
)

// TeamInfo carries the display metadata attached to a team identifier.
type TeamInfo struct {
	Label       string
	Color       string
	Description string
	Role        TeamRole
}

var teamInfos = map[Team]TeamInfo{
	TeamA: {Label: "Team A - Enemy Hospital", Color: "#FF6B6B", Description: "Frontline Strike", Role: RoleManeuver},
	TeamB: {Label: "Team B - Our Hospital", Color: "#4ECDC4", Description: "Defensive Command", Role: RoleBaseDefense},
	TeamC: {Label: "Team C - Captain Side", Color: "#FFE66D", Description: "Captain Squadron", Role: RoleManeuver},
	TeamD: {Label: "Team D - Military Centers", Color: "#B78DD9", Description: "Resource Squad", Role: RoleBaseDefense},
}

// Teams returns the four team identifiers in display order.
func Teams() []Team {
	return []Team{TeamA, TeamB, TeamC, TeamD}
}

// Info returns the display metadata for a team. The second return is
// false for identifiers outside the closed set.
func (t Team) Info() (TeamInfo, bool) {
	info, ok := teamInfos[t]
	return info, ok
}

// Valid reports whether t is one of the four known team identifiers.
func (t Team) Valid() bool {
	_, ok := teamInfos[t]
	return ok
}

// TeamTimings maps each team to its planned attack-start minute.
// Purely advisory display data entered by the user.
type TeamTimings map[Team]float64

// DefaultTeamTimings mirrors the planner's initial form state.
func DefaultTeamTimings() TeamTimings {
	return TeamTimings{TeamA: 0, TeamB: 0, TeamC: 4, TeamD: 4}
}

// Clone returns an independent copy.
func (tt TeamTimings) Clone() TeamTimings {
	out := make(TeamTimings, len(tt))
	for k, v := range tt {
		out[k] = v
	}
	return out
}
