package core

// Marking is a user-placed, time-scoped annotation on the map.
// Markings are immutable once placed; editing one is remove+add.
// The embedded Position flattens to the wire format's x/y keys.
type Marking struct {
	ID int64 `json:"id"`
	Position
	Team Team `json:"team"`

	// AppearTime is the minute into the battle the marking becomes
	// visible; Duration is how many minutes it stays up.
	AppearTime float64 `json:"time"`
	Duration   float64 `json:"duration"`
}

// VisibleAt reports whether the marking is shown at battle minute t.
// The interval is half-open: a marking with AppearTime 10 and
// Duration 10 is visible for t in [10,20), not at exactly 20.
func (m Marking) VisibleAt(t float64) bool {
	return t >= m.AppearTime && t < m.AppearTime+m.Duration
}

// ExpireTime is the first minute the marking is no longer visible.
func (m Marking) ExpireTime() float64 {
	return m.AppearTime + m.Duration
}
