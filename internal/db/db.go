// Package db provides a pgxpool-based connection pool with prepared statement
// registration, health checking, and embedded goose migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/power2u/traineasy-web/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Statements lists every prepared statement by name. Exported so tests can
// check that callers only reference registered names.
var Statements = map[string]string{
	// Health
	"health_check": "SELECT 1",

	// Notifications
	"list_notification_recipients": `
		SELECT u.id::text, COALESCE(u.full_name, ''), COALESCE(p.timezone, ''),
			p.notifications_enabled, p.meal_reminders_enabled,
			p.water_reminders_enabled, p.weekly_reminders_enabled,
			COALESCE(to_char(p.breakfast_time, 'HH24:MI'), ''),
			COALESCE(to_char(p.snack1_time, 'HH24:MI'), ''),
			COALESCE(to_char(p.lunch_time, 'HH24:MI'), ''),
			COALESCE(to_char(p.snack2_time, 'HH24:MI'), ''),
			COALESCE(to_char(p.dinner_time, 'HH24:MI'), '')
		FROM users u
		JOIN user_preferences p ON p.user_id = u.id
		WHERE p.notifications_enabled = true
		ORDER BY u.created_at`,
	"notification_already_sent": `
		SELECT EXISTS (
			SELECT 1 FROM notification_logs
			WHERE user_id = $1 AND kind = $2 AND sent_at >= $3
		)`,
	"get_user_device_tokens":       "SELECT token FROM device_tokens WHERE user_id = $1 ORDER BY created_at",
	"delete_device_tokens":         "DELETE FROM device_tokens WHERE token = ANY($1)",
	"active_notification_template": "SELECT kind, title, body FROM notification_templates WHERE kind = $1 AND is_active ORDER BY updated_at DESC LIMIT 1",

	// Preferences
	"get_preferences": `
		SELECT user_id::text, COALESCE(timezone, ''), notifications_enabled,
			meal_reminders_enabled, water_reminders_enabled, weekly_reminders_enabled,
			COALESCE(to_char(breakfast_time, 'HH24:MI'), ''),
			COALESCE(to_char(snack1_time, 'HH24:MI'), ''),
			COALESCE(to_char(lunch_time, 'HH24:MI'), ''),
			COALESCE(to_char(snack2_time, 'HH24:MI'), ''),
			COALESCE(to_char(dinner_time, 'HH24:MI'), ''),
			updated_at
		FROM user_preferences WHERE user_id = $1`,

	// Water
	"water_for_day": "SELECT user_id::text, date::text, total_ml, goal_ml, updated_at FROM water_intake WHERE user_id = $1 AND date = $2",
	"water_history": "SELECT user_id::text, date::text, total_ml, goal_ml, updated_at FROM water_intake WHERE user_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date",

	// Meals
	"meals_for_day": `
		SELECT breakfast_completed, breakfast_completed_at,
			snack1_completed, snack1_completed_at,
			lunch_completed, lunch_completed_at,
			snack2_completed, snack2_completed_at,
			dinner_completed, dinner_completed_at
		FROM meal_completions WHERE user_id = $1 AND date = $2`,

	// Measurements & weight
	"measurement_history": `
		SELECT user_id::text, date::text, weight_kg, waist_cm, chest_cm, hips_cm,
			arms_cm, thighs_cm, body_fat_pct, COALESCE(notes, ''), updated_at
		FROM measurements WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC LIMIT $4`,
	"latest_weight":  "SELECT id, user_id::text, weight_kg, logged_at FROM weight_logs WHERE user_id = $1 ORDER BY logged_at DESC LIMIT 1",
	"weight_history": "SELECT id, user_id::text, weight_kg, logged_at FROM weight_logs WHERE user_id = $1 AND logged_at >= $2 ORDER BY logged_at DESC LIMIT $3",

	// Catalog
	"active_banners": `
		SELECT id, title, COALESCE(image_url, ''), COALESCE(link_url, ''), sort_order, is_active, starts_at, ends_at
		FROM banners
		WHERE is_active AND (starts_at IS NULL OR starts_at <= NOW()) AND (ends_at IS NULL OR ends_at > NOW())
		ORDER BY sort_order, id`,
	"active_packages": `
		SELECT id, name, COALESCE(description, ''), price_cents, currency, duration_days, features, is_active, sort_order
		FROM packages WHERE is_active ORDER BY sort_order, id`,
}

// registerPreparedStatements registers all statements the API and job
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
