package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/validate"
)

// Measurement is one day's body measurements. Unset fields stay nil.
type Measurement struct {
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	WeightKg   *float64  `json:"weight_kg,omitempty"`
	WaistCm    *float64  `json:"waist_cm,omitempty"`
	ChestCm    *float64  `json:"chest_cm,omitempty"`
	HipsCm     *float64  `json:"hips_cm,omitempty"`
	ArmsCm     *float64  `json:"arms_cm,omitempty"`
	ThighsCm   *float64  `json:"thighs_cm,omitempty"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

func (m Measurement) validate() error {
	checks := []struct {
		field  string
		v      *float64
		lo, hi float64
	}{
		{"weight_kg", m.WeightKg, 20, 400},
		{"waist_cm", m.WaistCm, 30, 300},
		{"chest_cm", m.ChestCm, 30, 300},
		{"hips_cm", m.HipsCm, 30, 300},
		{"arms_cm", m.ArmsCm, 10, 150},
		{"thighs_cm", m.ThighsCm, 10, 200},
		{"body_fat_pct", m.BodyFatPct, 1, 75},
	}
	set := 0
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		set++
		if err := validate.Between(c.field, *c.v, c.lo, c.hi); err != nil {
			return err
		}
	}
	if set == 0 {
		return validate.Errorf("at least one measurement is required")
	}
	if len(m.Notes) > 1000 {
		return validate.Errorf("notes longer than 1000 characters")
	}
	return nil
}

// SaveMeasurement upserts the measurements of m.Date. Fields left nil keep
// their stored value.
func (s *Store) SaveMeasurement(ctx context.Context, m Measurement) (Measurement, error) {
	uid, err := validate.UserID(m.UserID)
	if err != nil {
		return Measurement{}, err
	}
	d, err := validate.Date(m.Date)
	if err != nil {
		return Measurement{}, err
	}
	if err := m.validate(); err != nil {
		return Measurement{}, err
	}

	var out Measurement
	err = s.db.QueryRow(ctx, `
		INSERT INTO measurements (user_id, date, weight_kg, waist_cm, chest_cm, hips_cm,
			arms_cm, thighs_cm, body_fat_pct, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))
		ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg = COALESCE(EXCLUDED.weight_kg, measurements.weight_kg),
			waist_cm = COALESCE(EXCLUDED.waist_cm, measurements.waist_cm),
			chest_cm = COALESCE(EXCLUDED.chest_cm, measurements.chest_cm),
			hips_cm = COALESCE(EXCLUDED.hips_cm, measurements.hips_cm),
			arms_cm = COALESCE(EXCLUDED.arms_cm, measurements.arms_cm),
			thighs_cm = COALESCE(EXCLUDED.thighs_cm, measurements.thighs_cm),
			body_fat_pct = COALESCE(EXCLUDED.body_fat_pct, measurements.body_fat_pct),
			notes = COALESCE(EXCLUDED.notes, measurements.notes),
			updated_at = NOW()
		RETURNING user_id::text, date::text, weight_kg, waist_cm, chest_cm, hips_cm,
			arms_cm, thighs_cm, body_fat_pct, COALESCE(notes, ''), updated_at`,
		uid, d, m.WeightKg, m.WaistCm, m.ChestCm, m.HipsCm, m.ArmsCm, m.ThighsCm, m.BodyFatPct, m.Notes,
	).Scan(&out.UserID, &out.Date, &out.WeightKg, &out.WaistCm, &out.ChestCm, &out.HipsCm,
		&out.ArmsCm, &out.ThighsCm, &out.BodyFatPct, &out.Notes, &out.UpdatedAt)
	if err != nil {
		return Measurement{}, fmt.Errorf("save measurement: %w", err)
	}
	return out, nil
}

// MeasurementHistory lists measurements in [from, to], newest first.
func (s *Store) MeasurementHistory(ctx context.Context, userID, from, to string, limit int) ([]Measurement, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}
	start, end, err := validate.DateRange(from, to, 365, s.now())
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	rows, err := s.db.Query(ctx, "measurement_history", uid, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("measurement history: %w", err)
	}
	defer rows.Close()

	out := []Measurement{}
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.UserID, &m.Date, &m.WeightKg, &m.WaistCm, &m.ChestCm, &m.HipsCm,
			&m.ArmsCm, &m.ThighsCm, &m.BodyFatPct, &m.Notes, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// WeightEntry is one weigh-in.
type WeightEntry struct {
	ID       int64     `json:"id"`
	UserID   string    `json:"user_id"`
	WeightKg float64   `json:"weight_kg"`
	LoggedAt time.Time `json:"logged_at"`
}

// LogWeight records a weigh-in. A zero at means now.
func (s *Store) LogWeight(ctx context.Context, userID string, kg float64, at time.Time) (WeightEntry, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return WeightEntry{}, err
	}
	if err := validate.Between("weight_kg", kg, 20, 400); err != nil {
		return WeightEntry{}, err
	}
	now := s.now()
	if at.IsZero() {
		at = now
	}
	if at.After(now.Add(time.Hour)) {
		return WeightEntry{}, validate.Errorf("logged_at is in the future")
	}

	var e WeightEntry
	err = s.db.QueryRow(ctx, `
		INSERT INTO weight_logs (user_id, weight_kg, logged_at) VALUES ($1, $2, $3)
		RETURNING id, user_id::text, weight_kg, logged_at`,
		uid, kg, at.UTC(),
	).Scan(&e.ID, &e.UserID, &e.WeightKg, &e.LoggedAt)
	if err != nil {
		return WeightEntry{}, fmt.Errorf("log weight: %w", err)
	}
	return e, nil
}

// LatestWeight returns the most recent weigh-in or db.ErrNotFound.
func (s *Store) LatestWeight(ctx context.Context, userID string) (WeightEntry, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return WeightEntry{}, err
	}
	var e WeightEntry
	err = s.db.QueryRow(ctx, "latest_weight", uid).Scan(&e.ID, &e.UserID, &e.WeightKg, &e.LoggedAt)
	if err != nil {
		if err = db.NotFound(err); errors.Is(err, db.ErrNotFound) {
			return WeightEntry{}, err
		}
		return WeightEntry{}, fmt.Errorf("latest weight: %w", err)
	}
	return e, nil
}

// WeightHistory lists weigh-ins of the last days, newest first.
func (s *Store) WeightHistory(ctx context.Context, userID string, days, limit int) ([]WeightEntry, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 90
	}
	if days > 3650 {
		return nil, validate.Errorf("days must be at most 3650")
	}
	since := s.now().AddDate(0, 0, -days).UTC()

	rows, err := s.db.Query(ctx, "weight_history", uid, since, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("weight history: %w", err)
	}
	defer rows.Close()

	out := []WeightEntry{}
	for rows.Next() {
		var e WeightEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 500:
		return 500
	}
	return limit
}
