// Package tracking stores a user's daily logs: water intake, meal
// completions, body measurements and weigh-ins. Each action is a thin
// validated statement over Postgres.
package tracking

import (
	"time"

	"github.com/power2u/traineasy-web/internal/db"
)

// DefaultHistoryDays is the range used when a history request names no bounds.
const DefaultHistoryDays = 30

// Store runs tracking statements through an injected Querier.
type Store struct {
	db  db.Querier
	now func() time.Time
}

// New creates a Store over q.
func New(q db.Querier) *Store {
	return &Store{db: q, now: time.Now}
}

func dateKey(d time.Time) string { return d.Format(time.DateOnly) }
