package worldclock

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedConverter(now time.Time) *Converter {
	c := NewConverter()
	c.now = func() time.Time { return now }
	return c
}

// Tuesday 2026-09-01 12:00 UTC.
var tuesdayNoon = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func TestConvertIdentity(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	for _, tz := range []string{ServerZone, "UTC", "America/New_York", "Asia/Tokyo"} {
		assert.Equal(t, "09:00", c.Convert("09:00", tz, tz, 5), tz)
	}
}

func TestConvertServerToUTC(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	// Server runs at UTC-2: 09:00 server is 11:00 UTC, same day.
	assert.Equal(t, "11:00 AM", c.Convert("09:00", ServerZone, "UTC", 5))
}

func TestConvertDayRollForward(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	// 23:00 at UTC-2 is 01:00 UTC the next day.
	assert.Equal(t, "01:00 AM +1", c.Convert("23:00", ServerZone, "UTC", 5))
}

func TestConvertDayRollBackward(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	// Midnight at UTC-2 is 02:00 UTC, which is 15:00 the previous
	// day at UTC-11.
	assert.Equal(t, "03:00 PM -1", c.Convert("00:00", ServerZone, "Etc/GMT+11", 6))
}

func TestConvertFixedEastwardOffset(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	// 00:00 at UTC-2 is 02:00 UTC, 10:00 at UTC+8, same day.
	assert.Equal(t, "10:00 AM", c.Convert("00:00", ServerZone, "Etc/GMT-8", 6))
}

func TestConvertWithoutEventDay(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	assert.Equal(t, "11:00 AM", c.Convert("09:00", ServerZone, "UTC", NoEventDay))
}

func TestConvertFailuresReturnSentinel(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	assert.Equal(t, Unavailable, c.Convert("09:00", ServerZone, "Not/AZone", 5))
	assert.Equal(t, Unavailable, c.Convert("09:00", "Not/AZone", "UTC", 5))
	assert.Equal(t, Unavailable, c.Convert("0900", ServerZone, "UTC", 5))
	assert.Equal(t, Unavailable, c.Convert("xx:yy", ServerZone, "UTC", 5))
	assert.Equal(t, Unavailable, c.Convert("", ServerZone, "UTC", 5))
}

func TestConvertRealZonesWellFormed(t *testing.T) {
	c := fixedConverter(tuesdayNoon)
	wellFormed := regexp.MustCompile(`^\d{2}:\d{2} (AM|PM)( [+-]1)?$`)

	for _, tz := range Timezones() {
		if tz.ID == "server" {
			continue
		}
		for _, ev := range Events() {
			for _, at := range ev.Times {
				got := c.Convert(at, ServerZone, tz.TZ, ev.DayNumber)
				assert.Regexp(t, wellFormed, got, "%s %s %s", ev.Name, at, tz.TZ)
			}
		}
	}
}

func TestConvertMonthRollover(t *testing.T) {
	// Saturday 2026-01-31: advancing to the next Friday crosses into
	// February.
	c := fixedConverter(time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "11:00 AM", c.Convert("09:00", ServerZone, "UTC", 5))
}

func TestCurrentServerTime(t *testing.T) {
	c := fixedConverter(time.Date(2026, time.September, 1, 12, 34, 56, 0, time.UTC))

	assert.Equal(t, "10:34:56 AM", c.CurrentServerTime())
	assert.Equal(t, "12:34:56 PM", c.CurrentTimeIn("UTC"))
	assert.Equal(t, Unavailable, c.CurrentTimeIn("Not/AZone"))
}

func TestScheduleTable(t *testing.T) {
	c := fixedConverter(tuesdayNoon)

	rows := c.ScheduleTable()
	require.Len(t, rows, len(Timezones()))

	// The server row converts through the identity path and shows
	// the raw event times.
	server := rows[0]
	assert.Equal(t, "server", server.Zone.ID)
	require.Len(t, server.Events, 3)
	assert.Equal(t, []string{"09:00", "18:00", "23:00"}, server.Events[0].Times)
	assert.Equal(t, "Canyon Clash", server.Events[0].Event)
	assert.Equal(t, "Friday", server.Events[0].Day)

	utc := rows[1]
	assert.Equal(t, []string{"11:00 AM", "08:00 PM", "01:00 AM +1"}, utc.Events[0].Times)
	assert.Equal(t, []string{"02:00 PM"}, utc.Events[1].Times)
	assert.Equal(t, []string{"02:00 AM"}, utc.Events[2].Times)
}

func TestTimezoneByID(t *testing.T) {
	tz, ok := TimezoneByID("jp")
	require.True(t, ok)
	assert.Equal(t, "Asia/Tokyo", tz.TZ)

	_, ok = TimezoneByID("nope")
	assert.False(t, ok)
}
