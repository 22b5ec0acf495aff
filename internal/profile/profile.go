// Package profile stores per-user notification preferences and the FCM
// device tokens a user's browsers and phones register.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/meal"
	"github.com/power2u/traineasy-web/internal/notifications"
	"github.com/power2u/traineasy-web/internal/validate"
)

// Store runs profile statements through an injected Querier.
type Store struct {
	db db.Querier
}

// New creates a Store over q.
func New(q db.Querier) *Store {
	return &Store{db: q}
}

// Preferences are the reminder settings of one user. Meal times are local
// HH:MM in Timezone.
type Preferences struct {
	UserID               string `json:"user_id"`
	Timezone             string `json:"timezone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	MealReminders        bool   `json:"meal_reminders_enabled"`
	WaterReminders       bool   `json:"water_reminders_enabled"`
	WeeklyReminders      bool   `json:"weekly_reminders_enabled"`
	meal.Times
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Defaults returns the settings of a user who never saved any.
func Defaults(userID string) Preferences {
	return Preferences{
		UserID:               userID,
		Timezone:             notifications.DefaultZone(),
		NotificationsEnabled: true,
		MealReminders:        true,
		WeeklyReminders:      true,
	}
}

// Update is a partial change. Nil fields keep their value; an empty meal
// time clears it.
type Update struct {
	Timezone             *string `json:"timezone"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	MealReminders        *bool   `json:"meal_reminders_enabled"`
	WaterReminders       *bool   `json:"water_reminders_enabled"`
	WeeklyReminders      *bool   `json:"weekly_reminders_enabled"`
	BreakfastTime        *string `json:"breakfast_time"`
	Snack1Time           *string `json:"snack1_time"`
	LunchTime            *string `json:"lunch_time"`
	Snack2Time           *string `json:"snack2_time"`
	DinnerTime           *string `json:"dinner_time"`
}

func (u Update) mealTime(t meal.Type) *string {
	switch t {
	case meal.Breakfast:
		return u.BreakfastTime
	case meal.Snack1:
		return u.Snack1Time
	case meal.Lunch:
		return u.LunchTime
	case meal.Snack2:
		return u.Snack2Time
	case meal.Dinner:
		return u.DinnerTime
	}
	return nil
}

// Apply validates u and merges it into p.
func (u Update) Apply(p Preferences) (Preferences, error) {
	if u.Timezone != nil {
		tz := strings.TrimSpace(*u.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" || strings.EqualFold(tz, "local") {
			return Preferences{}, validate.Errorf("unknown timezone %q", *u.Timezone)
		}
		p.Timezone = tz
	}
	setBool(&p.NotificationsEnabled, u.NotificationsEnabled)
	setBool(&p.MealReminders, u.MealReminders)
	setBool(&p.WaterReminders, u.WaterReminders)
	setBool(&p.WeeklyReminders, u.WeeklyReminders)

	for _, t := range meal.All {
		v := u.mealTime(t)
		if v == nil {
			continue
		}
		hhmm := strings.TrimSpace(*v)
		if hhmm != "" {
			h, m, err := notifications.ParseClock(hhmm)
			if err != nil {
				return Preferences{}, validate.Errorf("%s_time: %v", t, err)
			}
			hhmm = fmt.Sprintf("%02d:%02d", h, m)
		}
		p.Times.Set(t, hhmm)
	}
	return p, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Get returns the stored preferences or Defaults when none were saved.
func (s *Store) Get(ctx context.Context, userID string) (Preferences, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return Preferences{}, err
	}
	var p Preferences
	var updated time.Time
	err = s.db.QueryRow(ctx, "get_preferences", uid).Scan(
		&p.UserID, &p.Timezone, &p.NotificationsEnabled,
		&p.MealReminders, &p.WaterReminders, &p.WeeklyReminders,
		&p.Breakfast, &p.Snack1, &p.Lunch, &p.Snack2, &p.Dinner,
		&updated,
	)
	if errors.Is(db.NotFound(err), db.ErrNotFound) {
		return Defaults(uid), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	if p.Timezone == "" {
		p.Timezone = notifications.DefaultZone()
	}
	p.UpdatedAt = &updated
	return p, nil
}

// Update applies u on top of the stored preferences and saves the result.
func (s *Store) Update(ctx context.Context, userID string, u Update) (Preferences, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	p, err := u.Apply(current)
	if err != nil {
		return Preferences{}, err
	}

	var updated time.Time
	err = s.db.QueryRow(ctx, `
		INSERT INTO user_preferences (
			user_id, timezone, notifications_enabled, meal_reminders_enabled,
			water_reminders_enabled, weekly_reminders_enabled,
			breakfast_time, snack1_time, lunch_time, snack2_time, dinner_time
		) VALUES ($1, $2, $3, $4, $5, $6,
			NULLIF($7, '')::time, NULLIF($8, '')::time, NULLIF($9, '')::time,
			NULLIF($10, '')::time, NULLIF($11, '')::time)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			notifications_enabled = EXCLUDED.notifications_enabled,
			meal_reminders_enabled = EXCLUDED.meal_reminders_enabled,
			water_reminders_enabled = EXCLUDED.water_reminders_enabled,
			weekly_reminders_enabled = EXCLUDED.weekly_reminders_enabled,
			breakfast_time = EXCLUDED.breakfast_time,
			snack1_time = EXCLUDED.snack1_time,
			lunch_time = EXCLUDED.lunch_time,
			snack2_time = EXCLUDED.snack2_time,
			dinner_time = EXCLUDED.dinner_time,
			updated_at = NOW()
		RETURNING updated_at`,
		p.UserID, p.Timezone, p.NotificationsEnabled, p.MealReminders,
		p.WaterReminders, p.WeeklyReminders,
		p.Breakfast, p.Snack1, p.Lunch, p.Snack2, p.Dinner,
	).Scan(&updated)
	if err != nil {
		return Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	p.UpdatedAt = &updated
	return p, nil
}

// --------------------------------------------------------------------------
// Device tokens
// --------------------------------------------------------------------------

var platforms = map[string]bool{"web": true, "android": true, "ios": true}

// RegisterToken stores an FCM token for userID. A token already known under
// another user moves to this one, and re-registering refreshes it so the
// maintenance purge keeps it.
func (s *Store) RegisterToken(ctx context.Context, userID, token, platform string) error {
	uid, err := validate.UserID(userID)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if err := validate.Required("token", token); err != nil {
		return err
	}
	if len(token) > 4096 {
		return validate.Errorf("token too long")
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = "web"
	}
	if !platforms[platform] {
		return validate.Errorf("platform must be web, android or ios")
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO device_tokens (user_id, token, platform) VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = NOW()`,
		uid, token, platform)
	if err != nil {
		return fmt.Errorf("register token: %w", err)
	}
	return nil
}

// UnregisterToken removes one of userID's tokens.
func (s *Store) UnregisterToken(ctx context.Context, userID, token string) error {
	uid, err := validate.UserID(userID)
	if err != nil {
		return err
	}
	if err := validate.Required("token", token); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, "DELETE FROM device_tokens WHERE user_id = $1 AND token = $2", uid, strings.TrimSpace(token))
	if err != nil {
		return fmt.Errorf("unregister token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
