package notifications

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var fallbackZone atomic.Pointer[time.Location]

// SetDefaultZone replaces DefaultTimezone as the zone used for users whose
// timezone is empty or unknown. Binaries call it once with DEFAULT_TIMEZONE.
func SetDefaultZone(tz string) error {
	if tz == "" || tz == "Local" {
		return fmt.Errorf("default zone must be an IANA name, got %q", tz)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("default zone %q: %w", tz, err)
	}
	fallbackZone.Store(loc)
	return nil
}

// DefaultZone returns the name of the fallback zone.
func DefaultZone() string {
	return defaultLocation().String()
}

func defaultLocation() *time.Location {
	if loc := fallbackZone.Load(); loc != nil {
		return loc
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadZone resolves an IANA timezone name. Empty or unknown names fall back
// to the default zone (see SetDefaultZone), and UTC if even that is missing
// from tzdata.
func LoadZone(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return defaultLocation()
}

// LocalTime converts now into the user's zone.
func LocalTime(now time.Time, tz string) time.Time {
	return now.In(LoadZone(tz))
}

// ShouldFireAtFixedHour reports whether the local hour equals targetHour.
// Any minute inside the hour matches: the cron trigger is hourly, so the
// tolerance is the whole [H:00, H:59] window rather than an exact minute.
func ShouldFireAtFixedHour(now time.Time, tz string, targetHour int) (bool, time.Time) {
	local := LocalTime(now, tz)
	return local.Hour() == targetHour, local
}

// ShouldFireRelativeToAnchor fires at the local hour derived from an anchor
// time of day plus offsetMinutes, clamped into [minHour, maxHour]. A missing
// or malformed anchor falls back to minHour.
func ShouldFireRelativeToAnchor(now time.Time, tz, anchorHHMM string, offsetMinutes, minHour, maxHour int) (bool, time.Time) {
	local := LocalTime(now, tz)
	return local.Hour() == TargetHour(anchorHHMM, offsetMinutes, minHour, maxHour), local
}

// TargetHour computes the clamped firing hour for an anchor. Only the hour of
// anchor+offset is kept: dinner 19:30 with a 60 minute offset fires at 20.
func TargetHour(anchorHHMM string, offsetMinutes, minHour, maxHour int) int {
	h, m, err := ParseClock(anchorHHMM)
	if err != nil {
		return minHour
	}
	hour := (h*60 + m + offsetMinutes) / 60
	return min(max(hour, minHour), maxHour)
}

// LocalDateKey returns the user's local calendar date as YYYY-MM-DD.
func LocalDateKey(now time.Time, tz string) string {
	return LocalTime(now, tz).Format(time.DateOnly)
}

// DayStart returns local midnight of the current local day.
func DayStart(now time.Time, tz string) time.Time {
	l := LocalTime(now, tz)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, l.Location())
}

// WeekStart returns local midnight of the most recent Sunday (today if it is
// Sunday).
func WeekStart(now time.Time, tz string) time.Time {
	l := LocalTime(now, tz)
	return time.Date(l.Year(), l.Month(), l.Day()-int(l.Weekday()), 0, 0, 0, 0, l.Location())
}

// HourStart returns the start of the current local hour.
func HourStart(now time.Time, tz string) time.Time {
	l := LocalTime(now, tz)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), 0, 0, 0, l.Location())
}

// ParseClock parses a local time of day in HH:MM (HH:MM:SS is accepted and
// the seconds dropped, matching Postgres TIME output).
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
