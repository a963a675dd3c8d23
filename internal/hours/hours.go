// Package hours evaluates weekly working-hours schedules into an
// open-now verdict for a given instant.
package hours

import (
	"strconv"
	"strings"
	"time"
)

// DayKey identifies one row of a weekly schedule.
type DayKey string

const (
	Monday    DayKey = "monday"
	Tuesday   DayKey = "tuesday"
	Wednesday DayKey = "wednesday"
	Thursday  DayKey = "thursday"
	Friday    DayKey = "friday"
	Saturday  DayKey = "saturday"
	Sunday    DayKey = "sunday"
)

// dayKeys is ordered monday..sunday so that Go's Sunday=0 weekday
// numbering maps onto index 6.
var dayKeys = [7]DayKey{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayHours describes a single day's opening window. Open/Close are wall-clock
// strings such as "09:00" or "9:30 pm". Closed marks the whole day closed
// regardless of the window.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"is_closed"`
}

// WeeklySchedule maps day keys to opening windows. Missing days count as
// closed; a nil or empty schedule is always closed.
type WeeklySchedule map[DayKey]DayHours

// Evaluation is the result of judging a schedule at one instant.
type Evaluation struct {
	Today   DayKey `json:"today"`
	OpenNow bool   `json:"open_now"`
}

// DayKeyFor maps an instant's weekday onto its schedule row key.
func DayKeyFor(t time.Time) DayKey {
	return dayKeys[(int(t.Weekday())+6)%7]
}

// Evaluate reports whether the schedule is open at now. Only the current
// day's row is consulted: an overnight window such as tuesday 22:00-02:00
// matches instants whose own day key is tuesday, so 01:00 on wednesday is
// judged against wednesday's row. Evaluate never fails; malformed inputs
// degrade to closed.
func Evaluate(schedule WeeklySchedule, now time.Time) Evaluation {
	ev := Evaluation{Today: DayKeyFor(now)}
	if len(schedule) == 0 {
		return ev
	}

	day, ok := schedule[ev.Today]
	if !ok || day.Closed {
		return ev
	}

	openMin := minutesOfDay(day.Open)
	closeMin := minutesOfDay(day.Close)
	nowMin := now.Hour()*60 + now.Minute()

	switch {
	case openMin == closeMin:
		// zero-length window is always closed
	case closeMin > openMin:
		ev.OpenNow = nowMin >= openMin && nowMin < closeMin
	default:
		// window wraps past midnight
		ev.OpenNow = nowMin >= openMin || nowMin < closeMin
	}
	return ev
}

// minutesOfDay parses a lenient "HH:MM" wall-clock string, with an optional
// am/pm marker after the colon, into minutes since midnight. Malformed or
// empty values parse to 0 rather than failing.
func minutesOfDay(raw string) int {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	head, rest, _ := strings.Cut(s, ":")
	hour := digitValue(head)
	minute := digitValue(rest)

	if strings.Contains(rest, "pm") && hour < 12 {
		hour += 12
	}
	if strings.Contains(rest, "am") && hour == 12 {
		hour = 0
	}

	return hour*60 + minute
}

// digitValue strips everything but digits and parses the remainder,
// defaulting to 0.
func digitValue(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
