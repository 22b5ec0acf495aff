// Package meal defines the closed set of daily meal slots and the typed
// lookups that map each slot onto its time-of-day preference, its completion
// columns, and its reminder kind.
package meal

import (
	"fmt"
	"strings"
	"time"
)

// Type is one of the five daily meal slots.
type Type int

const (
	Breakfast Type = iota + 1
	Snack1
	Lunch
	Snack2
	Dinner
)

// All lists the meal slots in the order they happen during a day.
var All = []Type{Breakfast, Snack1, Lunch, Snack2, Dinner}

var names = map[Type]string{
	Breakfast: "breakfast",
	Snack1:    "snack1",
	Lunch:     "lunch",
	Snack2:    "snack2",
	Dinner:    "dinner",
}

// String returns the wire name ("breakfast", "snack1", ...).
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("meal(%d)", int(t))
}

// Valid reports whether t is one of the five known slots.
func (t Type) Valid() bool {
	_, ok := names[t]
	return ok
}

// Parse resolves a wire name into a Type.
func Parse(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, n := range names {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown meal type %q", s)
}

// --------------------------------------------------------------------------
// Meal times (per-user local HH:MM preferences)
// --------------------------------------------------------------------------

// Times holds a user's local meal times as HH:MM strings. Empty means unset.
type Times struct {
	Breakfast string `json:"breakfast_time,omitempty"`
	Snack1    string `json:"snack1_time,omitempty"`
	Lunch     string `json:"lunch_time,omitempty"`
	Snack2    string `json:"snack2_time,omitempty"`
	Dinner    string `json:"dinner_time,omitempty"`
}

var timeFields = map[Type]func(*Times) *string{
	Breakfast: func(t *Times) *string { return &t.Breakfast },
	Snack1:    func(t *Times) *string { return &t.Snack1 },
	Lunch:     func(t *Times) *string { return &t.Lunch },
	Snack2:    func(t *Times) *string { return &t.Snack2 },
	Dinner:    func(t *Times) *string { return &t.Dinner },
}

// Get returns the configured time for a slot.
func (mt Times) Get(t Type) string {
	f, ok := timeFields[t]
	if !ok {
		return ""
	}
	return *f(&mt)
}

// Set stores the time for a slot. Unknown slots are ignored.
func (mt *Times) Set(t Type, hhmm string) {
	if f, ok := timeFields[t]; ok {
		*f(mt) = hhmm
	}
}

// --------------------------------------------------------------------------
// Daily completion status
// --------------------------------------------------------------------------

// Completion is the completed flag and timestamp of a single meal slot.
type Completion struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Day is the completion state of every meal slot on one local date.
type Day struct {
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"`
	Breakfast Completion `json:"breakfast"`
	Snack1    Completion `json:"snack1"`
	Lunch     Completion `json:"lunch"`
	Snack2    Completion `json:"snack2"`
	Dinner    Completion `json:"dinner"`
}

var completionFields = map[Type]func(*Day) *Completion{
	Breakfast: func(d *Day) *Completion { return &d.Breakfast },
	Snack1:    func(d *Day) *Completion { return &d.Snack1 },
	Lunch:     func(d *Day) *Completion { return &d.Lunch },
	Snack2:    func(d *Day) *Completion { return &d.Snack2 },
	Dinner:    func(d *Day) *Completion { return &d.Dinner },
}

// Mark sets the completion of exactly one slot. at is recorded only when
// completed is true.
func (d *Day) Mark(t Type, completed bool, at time.Time) error {
	f, ok := completionFields[t]
	if !ok {
		return fmt.Errorf("unknown meal type %d", int(t))
	}
	c := f(d)
	c.Completed = completed
	c.CompletedAt = nil
	if completed {
		ts := at
		c.CompletedAt = &ts
	}
	return nil
}

// Slot returns the completion of one slot.
func (d Day) Slot(t Type) Completion {
	f, ok := completionFields[t]
	if !ok {
		return Completion{}
	}
	return *f(&d)
}

// CompletedCount counts completed slots.
func (d Day) CompletedCount() int {
	n := 0
	for _, t := range All {
		if d.Slot(t).Completed {
			n++
		}
	}
	return n
}

// Columns names the completion columns of one slot in meal_completions.
type Columns struct {
	Completed   string
	CompletedAt string
}

var columns = map[Type]Columns{
	Breakfast: {"breakfast_completed", "breakfast_completed_at"},
	Snack1:    {"snack1_completed", "snack1_completed_at"},
	Lunch:     {"lunch_completed", "lunch_completed_at"},
	Snack2:    {"snack2_completed", "snack2_completed_at"},
	Dinner:    {"dinner_completed", "dinner_completed_at"},
}

// ColumnsFor returns the fixed column pair for a slot.
func ColumnsFor(t Type) (Columns, bool) {
	c, ok := columns[t]
	return c, ok
}
