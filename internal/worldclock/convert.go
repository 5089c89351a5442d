// Package worldclock converts the game's fixed-offset server event
// times into wall-clock times for the player timezones the schedule
// page offers.
package worldclock

import (
	"strconv"
	"strings"
	"time"
)

const (
	// ServerZone is the game server's reference clock. The game calls
	// it "GMT-2"; in IANA's Etc area the sign is inverted.
	ServerZone = "Etc/GMT+2"

	// Unavailable is returned for any conversion that cannot be
	// computed. Failures stay isolated to the one table cell.
	Unavailable = "N/A"

	// NoEventDay converts against the current date instead of
	// advancing to an event weekday.
	NoEventDay = -1
)

// Converter performs server-to-local time conversion. The clock and
// zone lookup are injectable for tests.
type Converter struct {
	now          func() time.Time
	loadLocation func(string) (*time.Location, error)
}

func NewConverter() *Converter {
	return &Converter{now: time.Now, loadLocation: time.LoadLocation}
}

// Convert turns a server-local event time ("HH:MM" in fromTz) into the
// target zone's 12-hour wall-clock string, suffixed with " +1" or
// " -1" when the target's calendar date differs from the source's.
// eventDay anchors the conversion to the next occurrence of that
// weekday (0 = Sunday) in the source zone; pass NoEventDay to use
// today. Errors yield Unavailable.
func (c *Converter) Convert(serverTime, fromTz, toTz string, eventDay int) string {
	hours, minutes, err := parseClock(serverTime)
	if err != nil {
		return Unavailable
	}

	if fromTz == toTz {
		return serverTime
	}

	src, err := c.loadLocation(fromTz)
	if err != nil {
		return Unavailable
	}
	dst, err := c.loadLocation(toTz)
	if err != nil {
		return Unavailable
	}

	// Resolve the event's calendar date: today in the source zone,
	// advanced forward to the event weekday when one is given.
	sourceNow := c.now().In(src)
	year, month, day := sourceNow.Date()
	if eventDay >= 0 {
		daysAhead := (eventDay - int(sourceNow.Weekday()) + 7) % 7
		if daysAhead > 0 {
			t := time.Date(year, month, day+daysAhead, 0, 0, 0, 0, time.UTC)
			year, month, day = t.Date()
		}
	}

	// Probe the source zone's offset on that date by reading the
	// wall clock it shows at midnight UTC. A displayed hour past 12
	// means the zone is behind UTC, still on the previous day.
	probe := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).In(src)
	offsetHours, offsetMinutes := probe.Hour(), probe.Minute()
	if offsetHours > 12 {
		offsetHours -= 24
	}

	utcHours := hours - offsetHours
	utcMinutes := minutes - offsetMinutes
	if utcMinutes < 0 {
		utcHours--
		utcMinutes += 60
	} else if utcMinutes >= 60 {
		utcHours++
		utcMinutes -= 60
	}
	if utcHours < 0 {
		day--
		utcHours += 24
	} else if utcHours >= 24 {
		day++
		utcHours -= 24
	}

	event := time.Date(year, month, day, utcHours, utcMinutes, 0, 0, time.UTC)

	out := event.In(dst).Format("03:04 PM")

	// The same instant can land on different calendar dates in the
	// two zones; flag that so "23:00 Friday" reading "01:00 AM +1"
	// is unambiguous.
	switch {
	case dateNumber(event.In(dst)) > dateNumber(event.In(src)):
		out += " +1"
	case dateNumber(event.In(dst)) < dateNumber(event.In(src)):
		out += " -1"
	}
	return out
}

// CurrentServerTime formats the current instant on the server clock.
func (c *Converter) CurrentServerTime() string {
	return c.CurrentTimeIn(ServerZone)
}

// CurrentTimeIn formats the current instant in an arbitrary zone.
func (c *Converter) CurrentTimeIn(tz string) string {
	loc, err := c.loadLocation(tz)
	if err != nil {
		return Unavailable
	}
	return c.now().In(loc).Format("03:04:05 PM")
}

func parseClock(s string) (hours, minutes int, err error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, strconv.ErrSyntax
	}
	hours, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, err
	}
	minutes, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, err
	}
	return hours, minutes, nil
}

func dateNumber(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
