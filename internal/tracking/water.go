package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/validate"
)

const (
	DefaultWaterGoalML = 3000
	maxIntakeML        = 5000
	maxGoalML          = 10000
)

// WaterDay is a user's total intake on one date.
type WaterDay struct {
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	TotalML   int       `json:"total_ml"`
	GoalML    int       `json:"goal_ml"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Progress returns TotalML as a fraction of GoalML, capped at 1.
func (w WaterDay) Progress() float64 {
	if w.GoalML <= 0 {
		return 0
	}
	p := float64(w.TotalML) / float64(w.GoalML)
	if p > 1 {
		return 1
	}
	return p
}

// AddWater adds ml to the user's total for date. A negative amount undoes an
// earlier entry; the total never drops below zero.
func (s *Store) AddWater(ctx context.Context, userID, date string, ml int) (WaterDay, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return WaterDay{}, err
	}
	d, err := validate.Date(date)
	if err != nil {
		return WaterDay{}, err
	}
	if ml == 0 || ml < -maxIntakeML || ml > maxIntakeML {
		return WaterDay{}, validate.Errorf("amount_ml must be non-zero and within ±%d", maxIntakeML)
	}

	var w WaterDay
	err = s.db.QueryRow(ctx, `
		INSERT INTO water_intake (user_id, date, total_ml, goal_ml)
		VALUES ($1, $2, GREATEST($3, 0), $4)
		ON CONFLICT (user_id, date) DO UPDATE
		SET total_ml = GREATEST(water_intake.total_ml + $3, 0), updated_at = NOW()
		RETURNING user_id::text, date::text, total_ml, goal_ml, updated_at`,
		uid, d, ml, DefaultWaterGoalML,
	).Scan(&w.UserID, &w.Date, &w.TotalML, &w.GoalML, &w.UpdatedAt)
	if err != nil {
		return WaterDay{}, fmt.Errorf("add water: %w", err)
	}
	return w, nil
}

// SetWaterGoal changes the goal of one date.
func (s *Store) SetWaterGoal(ctx context.Context, userID, date string, goalML int) (WaterDay, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return WaterDay{}, err
	}
	d, err := validate.Date(date)
	if err != nil {
		return WaterDay{}, err
	}
	if err := validate.Between("goal_ml", float64(goalML), 250, maxGoalML); err != nil {
		return WaterDay{}, err
	}

	var w WaterDay
	err = s.db.QueryRow(ctx, `
		INSERT INTO water_intake (user_id, date, total_ml, goal_ml)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET goal_ml = $3, updated_at = NOW()
		RETURNING user_id::text, date::text, total_ml, goal_ml, updated_at`,
		uid, d, goalML,
	).Scan(&w.UserID, &w.Date, &w.TotalML, &w.GoalML, &w.UpdatedAt)
	if err != nil {
		return WaterDay{}, fmt.Errorf("set water goal: %w", err)
	}
	return w, nil
}

// WaterForDay returns the total for date. A day without entries reports zero
// against the default goal.
func (s *Store) WaterForDay(ctx context.Context, userID, date string) (WaterDay, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return WaterDay{}, err
	}
	d, err := validate.Date(date)
	if err != nil {
		return WaterDay{}, err
	}

	var w WaterDay
	err = s.db.QueryRow(ctx, "water_for_day", uid, d).
		Scan(&w.UserID, &w.Date, &w.TotalML, &w.GoalML, &w.UpdatedAt)
	if errors.Is(db.NotFound(err), db.ErrNotFound) {
		return WaterDay{UserID: uid, Date: dateKey(d), GoalML: DefaultWaterGoalML}, nil
	}
	if err != nil {
		return WaterDay{}, fmt.Errorf("get water: %w", err)
	}
	return w, nil
}

// WaterHistory lists the days with entries in [from, to].
func (s *Store) WaterHistory(ctx context.Context, userID, from, to string) ([]WaterDay, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}
	start, end, err := validate.DateRange(from, to, DefaultHistoryDays, s.now())
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, "water_history", uid, start, end)
	if err != nil {
		return nil, fmt.Errorf("water history: %w", err)
	}
	defer rows.Close()

	out := []WaterDay{}
	for rows.Next() {
		var w WaterDay
		if err := rows.Scan(&w.UserID, &w.Date, &w.TotalML, &w.GoalML, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan water: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
