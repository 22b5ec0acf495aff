package notifications

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/power2u/traineasy-web/internal/meal"
)

// Kind tags a notification type. The set is closed; see rules.
type Kind string

const (
	GoodMorning               Kind = "good_morning"
	GoodNight                 Kind = "good_night"
	WaterReminder             Kind = "water_reminder"
	WeeklyMeasurementReminder Kind = "weekly_measurement_reminder"
	WeeklyWeightReminder      Kind = "weekly_weight_reminder"
	AdminBroadcast            Kind = "admin_broadcast"
)

// MealReminder returns the reminder kind of a meal slot, e.g.
// meal_reminder_lunch.
func MealReminder(t meal.Type) Kind {
	return Kind("meal_reminder_" + t.String())
}

// MealReminders lists every meal reminder kind in day order.
func MealReminders() []Kind {
	kinds := make([]Kind, 0, len(meal.All))
	for _, t := range meal.All {
		kinds = append(kinds, MealReminder(t))
	}
	return kinds
}

// Period is the dedup window of a kind.
type Period int

const (
	PeriodNone Period = iota
	PeriodHour
	PeriodDay
	PeriodWeek
)

func (p Period) String() string {
	switch p {
	case PeriodHour:
		return "hour"
	case PeriodDay:
		return "day"
	case PeriodWeek:
		return "week"
	default:
		return "none"
	}
}

// Start returns the local start of the period containing now.
func (p Period) Start(now time.Time, tz string) time.Time {
	switch p {
	case PeriodHour:
		return HourStart(now, tz)
	case PeriodDay:
		return DayStart(now, tz)
	case PeriodWeek:
		return WeekStart(now, tz)
	default:
		return now
	}
}

// Rule is the firing rule of a kind.
type Rule struct {
	Kind   Kind
	Period Period
	// Eligible filters recipients on their sub-preferences.
	Eligible func(Recipient) bool
	// Due reports whether the kind should fire for the recipient at now.
	Due func(now time.Time, r Recipient) bool
	// Default is used when no active template exists.
	Default Template
}

var rules = buildRules()

func buildRules() map[Kind]Rule {
	m := map[Kind]Rule{
		GoodMorning: {
			Kind:     GoodMorning,
			Period:   PeriodDay,
			Eligible: enabled,
			Due: func(now time.Time, r Recipient) bool {
				ok, _ := ShouldFireAtFixedHour(now, r.Timezone, goodMorningHour)
				return ok
			},
			Default: Template{Title: "Good morning, {name}!", Body: "Start your day with a glass of water and log your breakfast."},
		},
		GoodNight: {
			Kind:     GoodNight,
			Period:   PeriodDay,
			Eligible: enabled,
			Due: func(now time.Time, r Recipient) bool {
				ok, _ := ShouldFireRelativeToAnchor(now, r.Timezone, r.MealTimes.Dinner,
					goodNightOffset, goodNightMinHour, goodNightMaxHour)
				return ok
			},
			Default: Template{Title: "Good night, {name}", Body: "Great work today. Rest well and get ready for tomorrow."},
		},
		WaterReminder: {
			Kind:     WaterReminder,
			Period:   PeriodHour,
			Eligible: func(r Recipient) bool { return r.NotificationsEnabled && r.WaterReminders },
			Due: func(now time.Time, r Recipient) bool {
				return slices.Contains(waterReminderHours, LocalTime(now, r.Timezone).Hour())
			},
			Default: Template{Title: "Time to hydrate 💧", Body: "{name}, have a glass of water and log it."},
		},
		WeeklyMeasurementReminder: {
			Kind:     WeeklyMeasurementReminder,
			Period:   PeriodWeek,
			Eligible: weeklyEnabled,
			Due:      weekdayAt(time.Sunday, weeklyMeasureHour),
			Default:  Template{Title: "Weekly check-in", Body: "{name}, it's Sunday! Log your body measurements."},
		},
		WeeklyWeightReminder: {
			Kind:     WeeklyWeightReminder,
			Period:   PeriodWeek,
			Eligible: weeklyEnabled,
			Due:      weekdayAt(time.Monday, weeklyWeightHour),
			Default:  Template{Title: "Weigh-in day", Body: "{name}, step on the scale and log this week's weight."},
		},
		AdminBroadcast: {
			Kind:     AdminBroadcast,
			Period:   PeriodNone,
			Eligible: enabled,
			Due:      func(time.Time, Recipient) bool { return true },
		},
	}
	for _, t := range meal.All {
		t := t // per-iteration copy (go directive < 1.22)
		k := MealReminder(t)
		m[k] = Rule{
			Kind:   k,
			Period: PeriodDay,
			Eligible: func(r Recipient) bool {
				return r.NotificationsEnabled && r.MealReminders && r.MealTimes.Get(t) != ""
			},
			Due: func(now time.Time, r Recipient) bool {
				h, _, err := ParseClock(r.MealTimes.Get(t))
				if err != nil {
					return false
				}
				ok, _ := ShouldFireAtFixedHour(now, r.Timezone, h)
				return ok
			},
			Default: Template{
				Title: fmt.Sprintf("%s time", mealTitle[t]),
				Body:  fmt.Sprintf("{name}, don't forget to log your %s.", mealTitle[t]),
			},
		}
	}
	for k, r := range m {
		r.Default.Kind = k
		m[k] = r
	}
	return m
}

var mealTitle = map[meal.Type]string{
	meal.Breakfast: "Breakfast",
	meal.Snack1:    "Morning snack",
	meal.Lunch:     "Lunch",
	meal.Snack2:    "Evening snack",
	meal.Dinner:    "Dinner",
}

// RuleFor returns the firing rule of a kind.
func RuleFor(k Kind) (Rule, bool) {
	r, ok := rules[k]
	return r, ok
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := rules[k]; !ok {
		return "", fmt.Errorf("unknown notification kind %q", s)
	}
	return k, nil
}

func enabled(r Recipient) bool { return r.NotificationsEnabled }

func weeklyEnabled(r Recipient) bool { return r.NotificationsEnabled && r.WeeklyReminders }

func weekdayAt(day time.Weekday, hour int) func(time.Time, Recipient) bool {
	return func(now time.Time, r Recipient) bool {
		local := LocalTime(now, r.Timezone)
		return local.Weekday() == day && local.Hour() == hour
	}
}

// DefaultTemplates returns the built-in template of every scheduled kind,
// sorted by kind.
func DefaultTemplates() []Template {
	out := make([]Template, 0, len(rules))
	for k, r := range rules {
		if k == AdminBroadcast {
			continue
		}
		out = append(out, r.Default)
	}
	slices.SortFunc(out, func(a, b Template) int { return strings.Compare(string(a.Kind), string(b.Kind)) })
	return out
}
