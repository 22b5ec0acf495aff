package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: build a time in given tz and return its UTC
func mustLocalUTC(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err, "load tz")
	return time.Date(y, m, d, hh, mm, 0, 0, loc).UTC()
}

func TestLoadZone_FallsBack(t *testing.T) {
	assert.Equal(t, "Europe/Berlin", LoadZone("Europe/Berlin").String())
	assert.Equal(t, DefaultTimezone, LoadZone("").String())
	assert.Equal(t, DefaultTimezone, LoadZone("Not/AZone").String())
}

func TestSetDefaultZone(t *testing.T) {
	require.NoError(t, SetDefaultZone("America/New_York"))
	t.Cleanup(func() { _ = SetDefaultZone(DefaultTimezone) })

	assert.Equal(t, "America/New_York", DefaultZone())
	assert.Equal(t, "America/New_York", LoadZone("").String())
	assert.Equal(t, "America/New_York", LoadZone("Not/AZone").String())
	assert.Equal(t, "Europe/Berlin", LoadZone("Europe/Berlin").String())

	// 07:00 in New York fires for blank and malformed zones alike.
	now := mustLocalUTC(t, "America/New_York", 2026, time.October, 19, 7, 0)
	for _, tz := range []string{"", "Not/AZone", "America/New_York"} {
		ok, _ := ShouldFireAtFixedHour(now, tz, 7)
		assert.True(t, ok, "zone %q", tz)
	}
	ok, _ := ShouldFireAtFixedHour(now, "Asia/Kolkata", 7)
	assert.False(t, ok)
	assert.Equal(t, "2026-10-19", LocalDateKey(now, ""))
}

func TestSetDefaultZone_Rejects(t *testing.T) {
	for _, tz := range []string{"", "Local", "Not/AZone"} {
		assert.Error(t, SetDefaultZone(tz), tz)
	}
	assert.Equal(t, DefaultTimezone, DefaultZone())
}

func TestShouldFireAtFixedHour_WholeHourMatches(t *testing.T) {
	const tz = "Asia/Kolkata"
	for _, minute := range []int{0, 1, 30, 59} {
		now := mustLocalUTC(t, tz, 2026, time.March, 2, 7, minute)
		ok, local := ShouldFireAtFixedHour(now, tz, 7)
		assert.True(t, ok, "07:%02d", minute)
		assert.Equal(t, 7, local.Hour())
	}
	for _, hour := range []int{6, 8, 19} {
		now := mustLocalUTC(t, tz, 2026, time.March, 2, hour, 0)
		ok, _ := ShouldFireAtFixedHour(now, tz, 7)
		assert.False(t, ok, "%02d:00", hour)
	}
}

func TestShouldFireAtFixedHour_StableAcrossCalls(t *testing.T) {
	now := mustLocalUTC(t, "America/New_York", 2026, time.June, 10, 7, 42)
	first, _ := ShouldFireAtFixedHour(now, "America/New_York", 7)
	for i := 0; i < 5; i++ {
		again, _ := ShouldFireAtFixedHour(now, "America/New_York", 7)
		assert.Equal(t, first, again)
	}
}

func TestShouldFireAtFixedHour_InvalidZoneUsesDefault(t *testing.T) {
	now := mustLocalUTC(t, DefaultTimezone, 2026, time.March, 2, 7, 10)
	ok, local := ShouldFireAtFixedHour(now, "garbage", 7)
	assert.True(t, ok)
	assert.Equal(t, DefaultTimezone, local.Location().String())
}

func TestShouldFireAtFixedHour_DST(t *testing.T) {
	// 2026-03-08 is the spring-forward day in New York: 12:00 UTC is 08:00 EDT.
	now := time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC)
	ok, _ := ShouldFireAtFixedHour(now, "America/New_York", 8)
	assert.True(t, ok)

	// One day earlier, still on EST, the same UTC instant is 07:00.
	ok, _ = ShouldFireAtFixedHour(now.Add(-24*time.Hour), "America/New_York", 7)
	assert.True(t, ok)
}

func TestTargetHour(t *testing.T) {
	cases := []struct {
		anchor string
		want   int
	}{
		{"19:30", 20}, // max(20, 19+1)
		{"19:00", 20},
		{"17:00", 20}, // clamped up
		{"21:15", 22},
		{"22:30", 23},
		{"23:30", 23}, // clamped down, no wrap to 0
		{"", 20},
		{"7pm", 20},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TargetHour(c.anchor, 60, 20, 23), c.anchor)
	}
}

func TestShouldFireRelativeToAnchor_GoodNightScenario(t *testing.T) {
	const tz = "Asia/Kolkata"
	at2005 := mustLocalUTC(t, tz, 2026, time.March, 2, 20, 5)
	at2030 := mustLocalUTC(t, tz, 2026, time.March, 2, 20, 30)
	at2100 := mustLocalUTC(t, tz, 2026, time.March, 2, 21, 0)

	ok, _ := ShouldFireRelativeToAnchor(at2005, tz, "19:30", 60, 20, 23)
	assert.True(t, ok)
	ok, _ = ShouldFireRelativeToAnchor(at2030, tz, "19:30", 60, 20, 23)
	assert.True(t, ok)
	ok, _ = ShouldFireRelativeToAnchor(at2100, tz, "19:30", 60, 20, 23)
	assert.False(t, ok)
}

func TestLocalDateKey_MidnightBoundary(t *testing.T) {
	const tz = "Asia/Kolkata"
	early := mustLocalUTC(t, tz, 2026, time.March, 2, 0, 1)
	late := mustLocalUTC(t, tz, 2026, time.March, 2, 23, 59)
	before := mustLocalUTC(t, tz, 2026, time.March, 1, 23, 59)

	assert.Equal(t, "2026-03-02", LocalDateKey(early, tz))
	assert.Equal(t, LocalDateKey(early, tz), LocalDateKey(late, tz))
	assert.Equal(t, "2026-03-01", LocalDateKey(before, tz))
	assert.NotEqual(t, LocalDateKey(before, tz), LocalDateKey(early, tz))

	// The same instant is a different local date in UTC.
	assert.Equal(t, "2026-03-01", LocalDateKey(early, "UTC"))
}

func TestDayAndWeekStart(t *testing.T) {
	const tz = "America/New_York"
	// Wednesday 2026-03-11 15:20 EDT.
	now := mustLocalUTC(t, tz, 2026, time.March, 11, 15, 20)

	day := DayStart(now, tz)
	assert.Equal(t, "2026-03-11T00:00:00-04:00", day.Format(time.RFC3339))

	// Sunday before was the DST switch; its midnight was still EST.
	week := WeekStart(now, tz)
	assert.Equal(t, "2026-03-08T00:00:00-05:00", week.Format(time.RFC3339))
	assert.Equal(t, time.Sunday, week.Weekday())

	sunday := mustLocalUTC(t, tz, 2026, time.March, 15, 10, 0)
	assert.Equal(t, "2026-03-15T00:00:00-04:00", WeekStart(sunday, tz).Format(time.RFC3339))

	hour := HourStart(now, tz)
	assert.Equal(t, "2026-03-11T15:00:00-04:00", hour.Format(time.RFC3339))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("19:30")
	require.NoError(t, err)
	assert.Equal(t, 19, h)
	assert.Equal(t, 30, m)

	h, m, err = ParseClock("07:05:00")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{"", "24:00", "12:60", "noon", "1:2:3:4"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
