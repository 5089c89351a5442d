package worldclock

// Event is a recurring server event with fixed start times on a fixed
// weekday (time.Weekday numbering, Sunday = 0).
type Event struct {
	Name      string   `json:"name"`
	Times     []string `json:"times"`
	Day       string   `json:"day"`
	DayNumber int      `json:"dayNumber"`
}

// Timezone is one selectable player timezone.
type Timezone struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	TZ      string `json:"tz"`
	Country string `json:"country"`
}

// Events returns the weekly event schedule in server time.
func Events() []Event {
	return append([]Event(nil), events...)
}

// Timezones returns the supported player timezones, server time first.
func Timezones() []Timezone {
	return append([]Timezone(nil), timezones...)
}

// TimezoneByID resolves a timezone selector id.
func TimezoneByID(id string) (Timezone, bool) {
	for _, tz := range timezones {
		if tz.ID == id {
			return tz, true
		}
	}
	return Timezone{}, false
}

// EventCell is one event's converted start times for one timezone.
type EventCell struct {
	Event string   `json:"event"`
	Day   string   `json:"day"`
	Times []string `json:"times"`
}

// ScheduleRow is one timezone's view of the full event schedule.
type ScheduleRow struct {
	Zone   Timezone    `json:"zone"`
	Events []EventCell `json:"events"`
}

// ScheduleTable converts every event time into every supported
// timezone. Cells that fail to convert carry Unavailable; one bad
// zone never breaks the rest of the table.
func (c *Converter) ScheduleTable() []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(timezones))
	for _, tz := range timezones {
		row := ScheduleRow{Zone: tz}
		for _, ev := range events {
			cell := EventCell{Event: ev.Name, Day: ev.Day}
			for _, t := range ev.Times {
				cell.Times = append(cell.Times, c.Convert(t, ServerZone, tz.TZ, ev.DayNumber))
			}
			row.Events = append(row.Events, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

var events = []Event{
	{Name: "Canyon Clash", Times: []string{"09:00", "18:00", "23:00"}, Day: "Friday", DayNumber: 5},
	{Name: "Capital Clash", Times: []string{"12:00"}, Day: "Saturday", DayNumber: 6},
	{Name: "AvA Buster Day", Times: []string{"00:00"}, Day: "Saturday", DayNumber: 6},
}

var timezones = []Timezone{
	{ID: "server", Label: "Server Time (GMT-2)", TZ: ServerZone, Country: "Server"},
	{ID: "utc", Label: "UTC", TZ: "UTC", Country: "UTC"},

	{ID: "us-east", Label: "US East (EST)", TZ: "America/New_York", Country: "USA"},
	{ID: "us-central", Label: "US Central (CST)", TZ: "America/Chicago", Country: "USA"},
	{ID: "us-mountain", Label: "US Mountain (MST)", TZ: "America/Denver", Country: "USA"},
	{ID: "us-pacific", Label: "US Pacific (PST)", TZ: "America/Los_Angeles", Country: "USA"},
	{ID: "ca", Label: "Canada (EST)", TZ: "America/Toronto", Country: "Canada"},
	{ID: "mx", Label: "Mexico (CST)", TZ: "America/Mexico_City", Country: "Mexico"},
	{ID: "br", Label: "Brazil (BRT)", TZ: "America/Sao_Paulo", Country: "Brazil"},
	{ID: "ar", Label: "Argentina (ART)", TZ: "America/Argentina/Buenos_Aires", Country: "Argentina"},
	{ID: "cl", Label: "Chile (CLT)", TZ: "America/Santiago", Country: "Chile"},
	{ID: "pe", Label: "Peru (PET)", TZ: "America/Lima", Country: "Peru"},
	{ID: "co", Label: "Colombia (COT)", TZ: "America/Bogota", Country: "Colombia"},
	{ID: "ec", Label: "Ecuador (ECT)", TZ: "America/Guayaquil", Country: "Ecuador"},
	{ID: "do", Label: "Dominican Republic (AST)", TZ: "America/Santo_Domingo", Country: "Dominican Republic"},
	{ID: "cr", Label: "Costa Rica (CST)", TZ: "America/Costa_Rica", Country: "Costa Rica"},

	{ID: "uk", Label: "UK (GMT)", TZ: "Europe/London", Country: "UK"},
	{ID: "pt", Label: "Portugal (WET)", TZ: "Europe/Lisbon", Country: "Portugal"},
	{ID: "es", Label: "Spain (CET)", TZ: "Europe/Madrid", Country: "Spain"},
	{ID: "be", Label: "Belgium (CET)", TZ: "Europe/Brussels", Country: "Belgium"},
	{ID: "eu-west", Label: "EU West (GMT/IST)", TZ: "Europe/Dublin", Country: "Ireland"},
	{ID: "eu-central", Label: "Germany (CET)", TZ: "Europe/Berlin", Country: "Germany"},
	{ID: "it", Label: "Italy (CET)", TZ: "Europe/Rome", Country: "Italy"},
	{ID: "ch", Label: "Switzerland (CET)", TZ: "Europe/Zurich", Country: "Switzerland"},
	{ID: "cz", Label: "Czech Republic (CET)", TZ: "Europe/Prague", Country: "Czech Republic"},
	{ID: "hr", Label: "Croatia (CET)", TZ: "Europe/Zagreb", Country: "Croatia"},
	{ID: "ro", Label: "Romania (EET)", TZ: "Europe/Bucharest", Country: "Romania"},
	{ID: "tr", Label: "Turkey (EET)", TZ: "Europe/Istanbul", Country: "Turkey"},
	{ID: "tn", Label: "Tunisia (CET)", TZ: "Africa/Tunis", Country: "Tunisia"},
	{ID: "ru", Label: "Russia (MSK)", TZ: "Europe/Moscow", Country: "Russia"},

	{ID: "in", Label: "India (IST)", TZ: "Asia/Kolkata", Country: "India"},
	{ID: "bd", Label: "Bangladesh (BDT)", TZ: "Asia/Dhaka", Country: "Bangladesh"},
	{ID: "th", Label: "Thailand (ICT)", TZ: "Asia/Bangkok", Country: "Thailand"},
	{ID: "my", Label: "Malaysia (MYT)", TZ: "Asia/Kuala_Lumpur", Country: "Malaysia"},
	{ID: "id", Label: "Indonesia (WIB)", TZ: "Asia/Jakarta", Country: "Indonesia"},
	{ID: "kz", Label: "Kazakhstan (ALMT)", TZ: "Asia/Almaty", Country: "Kazakhstan"},
	{ID: "cn", Label: "China (CST)", TZ: "Asia/Shanghai", Country: "China"},
	{ID: "kr", Label: "Korea (KST)", TZ: "Asia/Seoul", Country: "South Korea"},
	{ID: "jp", Label: "Japan (JST)", TZ: "Asia/Tokyo", Country: "Japan"},
	{ID: "ph", Label: "Philippines (PHT)", TZ: "Asia/Manila", Country: "Philippines"},

	{ID: "au", Label: "Australia (AEST)", TZ: "Australia/Sydney", Country: "Australia"},
	{ID: "nz", Label: "New Zealand (NZST)", TZ: "Pacific/Auckland", Country: "New Zealand"},
}
