package notifications

import (
	"context"
	"fmt"
	"time"
)

// AlreadySent reports whether kind was already logged for the user inside
// the current local period. Kinds without a period are never deduplicated.
// Callers must treat a non-nil error as "skip": a failed lookup never
// allows a send.
func AlreadySent(ctx context.Context, store Store, userID string, kind Kind, now time.Time, tz string) (bool, error) {
	rule, ok := RuleFor(kind)
	if !ok {
		return false, fmt.Errorf("unknown notification kind %q", kind)
	}
	if rule.Period == PeriodNone {
		return false, nil
	}
	since := rule.Period.Start(now, tz)
	sent, err := store.AlreadySent(ctx, userID, kind, since)
	if err != nil {
		return false, fmt.Errorf("dedup check %s since %s: %w", kind, since.Format(time.RFC3339), err)
	}
	return sent, nil
}
