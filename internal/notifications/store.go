package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/power2u/traineasy-web/internal/db"
)

// DB is the pool surface PGStore needs: statements plus transactions for
// template edits. Satisfied by *db.Pool and dbtest.Fake.
type DB interface {
	db.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PGStore implements Store on the shared connection pool. Statement names
// refer to prepared statements registered by internal/db.
type PGStore struct {
	pool DB
	now  func() time.Time
}

var _ Store = (*PGStore)(nil)

// NewPGStore creates a Postgres-backed store.
func NewPGStore(pool DB) *PGStore {
	return &PGStore{pool: pool, now: time.Now}
}

// ListRecipients returns every user with notifications enabled.
func (s *PGStore) ListRecipients(ctx context.Context) ([]Recipient, error) {
	rows, err := s.pool.Query(ctx, "list_notification_recipients")
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(
			&r.UserID, &r.Name, &r.Timezone,
			&r.NotificationsEnabled, &r.MealReminders, &r.WaterReminders, &r.WeeklyReminders,
			&r.MealTimes.Breakfast, &r.MealTimes.Snack1, &r.MealTimes.Lunch,
			&r.MealTimes.Snack2, &r.MealTimes.Dinner,
		); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		if r.Timezone == "" {
			r.Timezone = DefaultZone()
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AlreadySent checks for a log row of (user, kind) at or after since.
func (s *PGStore) AlreadySent(ctx context.Context, userID string, kind Kind, since time.Time) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, "notification_already_sent", userID, string(kind), since).Scan(&exists); err != nil {
		return false, fmt.Errorf("query notification log: %w", err)
	}
	return exists, nil
}

// DeviceTokens returns every registered token of a user.
func (s *PGStore) DeviceTokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, "get_user_device_tokens", userID)
	if err != nil {
		return nil, fmt.Errorf("get device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get device tokens: %w", err)
	}
	return tokens, nil
}

// DeleteTokens removes tokens FCM reported as invalid.
func (s *PGStore) DeleteTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, "delete_device_tokens", tokens)
	if err != nil {
		return 0, fmt.Errorf("delete device tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertLog appends a notification log entry.
func (s *PGStore) InsertLog(ctx context.Context, e LogEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notification_logs (
			user_id, kind, title, body, sent_at, success_count, failure_count
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.UserID, string(e.Kind), e.Title, e.Body, e.SentAt, e.SuccessCount, e.FailureCount,
	)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}

// ActiveTemplate returns the newest active template of kind.
func (s *PGStore) ActiveTemplate(ctx context.Context, kind Kind) (Template, bool, error) {
	var t Template
	var k string
	err := s.pool.QueryRow(ctx, "active_notification_template", string(kind)).Scan(&k, &t.Title, &t.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, false, nil
	}
	if err != nil {
		return Template{}, false, fmt.Errorf("get active template: %w", err)
	}
	t.Kind = Kind(k)
	return t, true, nil
}

// --------------------------------------------------------------------------
// Admin: templates
// --------------------------------------------------------------------------

// TemplateRow is a stored template including its status.
type TemplateRow struct {
	ID        int       `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListTemplates returns all templates, newest first.
func (s *PGStore) ListTemplates(ctx context.Context) ([]TemplateRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, title, body, is_active, updated_at
		FROM notification_templates
		ORDER BY kind, updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []TemplateRow
	for rows.Next() {
		var t TemplateRow
		var k string
		if err := rows.Scan(&t.ID, &k, &t.Title, &t.Body, &t.IsActive, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Kind = Kind(k)
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveTemplate stores a template for kind. When active, any other active
// template of the same kind is deactivated in the same transaction.
func (s *PGStore) SaveTemplate(ctx context.Context, t Template, active bool) (TemplateRow, error) {
	var row TemplateRow
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if active {
			if _, err := tx.Exec(ctx, `
				UPDATE notification_templates SET is_active = false, updated_at = NOW()
				WHERE kind = $1 AND is_active`, string(t.Kind)); err != nil {
				return err
			}
		}
		var k string
		if err := tx.QueryRow(ctx, `
			INSERT INTO notification_templates (kind, title, body, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id, kind, title, body, is_active, updated_at`,
			string(t.Kind), t.Title, t.Body, active,
		).Scan(&row.ID, &k, &row.Title, &row.Body, &row.IsActive, &row.UpdatedAt); err != nil {
			return err
		}
		row.Kind = Kind(k)
		return nil
	})
	if err != nil {
		return TemplateRow{}, fmt.Errorf("save template: %w", err)
	}
	return row, nil
}

// --------------------------------------------------------------------------
// Admin: queued broadcasts
// --------------------------------------------------------------------------

// QueuedBroadcast is a broadcast row inserted by the admin panel.
type QueuedBroadcast struct {
	ID    int64
	Title string
	Body  string
}

// StaleSending is how long a broadcast may stay in 'sending' before the
// sweep assumes its consumer died and claims it again.
const StaleSending = 30 * time.Minute

// ClaimBroadcast marks a pending broadcast, or one stuck in 'sending' for
// longer than StaleSending, as sending and returns it. found is false when
// another consumer holds it.
func (s *PGStore) ClaimBroadcast(ctx context.Context, id int64) (b QueuedBroadcast, found bool, err error) {
	err = s.pool.QueryRow(ctx, `
		UPDATE notification_broadcasts
		SET status = 'sending', updated_at = NOW()
		WHERE id = $1 AND (status = 'pending' OR (status = 'sending' AND updated_at < $2))
		RETURNING id, title, body`, id, s.now().Add(-StaleSending)).Scan(&b.ID, &b.Title, &b.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return QueuedBroadcast{}, false, nil
	}
	if err != nil {
		return QueuedBroadcast{}, false, fmt.Errorf("claim broadcast %d: %w", id, err)
	}
	return b, true, nil
}

// FinishBroadcast records the outcome of a queued broadcast.
func (s *PGStore) FinishBroadcast(ctx context.Context, id int64, res Result) error {
	status := "sent"
	if !res.Success {
		status = "failed"
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE notification_broadcasts
		SET status = $2, sent_count = $3, total_users = $4, error_count = $5,
			sent_at = NOW(), updated_at = NOW()
		WHERE id = $1`, id, status, res.NotificationsSent, res.TotalUsers, len(res.Errors))
	if err != nil {
		return fmt.Errorf("finish broadcast %d: %w", id, err)
	}
	return nil
}

// PendingBroadcasts lists broadcast ids still waiting to be sent, including
// stale 'sending' rows left behind by a consumer that died mid-send.
func (s *PGStore) PendingBroadcasts(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM notification_broadcasts
		WHERE status = 'pending' OR (status = 'sending' AND updated_at < $1)
		ORDER BY created_at`, s.now().Add(-StaleSending))
	if err != nil {
		return nil, fmt.Errorf("list pending broadcasts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan broadcast id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
