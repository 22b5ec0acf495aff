package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/power2u/traineasy-web/internal/config"
	"github.com/power2u/traineasy-web/internal/db"
)

// purge is one retention rule: rows of a table older than a cutoff go.
type purge struct {
	name      string
	sql       string
	retention func(Config) time.Duration
}

var purges = []purge{
	{
		name:      config.NotificationLogsTable,
		sql:       "DELETE FROM " + config.NotificationLogsTable + " WHERE sent_at < $1",
		retention: func(c Config) time.Duration { return c.LogRetention },
	},
	{
		name:      config.DeviceTokensTable,
		sql:       "DELETE FROM " + config.DeviceTokensTable + " WHERE updated_at < $1",
		retention: func(c Config) time.Duration { return c.TokenRetention },
	},
}

// Purge applies every retention rule relative to now and returns the rows
// removed per table. A zero retention keeps the table untouched. The first
// failure stops the pass.
func Purge(ctx context.Context, q db.Querier, cfg Config, now time.Time, logger *slog.Logger) (map[string]int64, error) {
	removed := make(map[string]int64, len(purges))
	for _, p := range purges {
		keep := p.retention(cfg)
		if keep <= 0 {
			continue
		}
		start := time.Now()
		tag, err := q.Exec(ctx, p.sql, now.Add(-keep))
		dur := time.Since(start).Round(time.Millisecond)

		if err != nil {
			logger.Warn("Cleanup: purge failed", "table", p.name, "duration", dur, "error", err)
			return removed, fmt.Errorf("purge %s: %w", p.name, err)
		}
		removed[p.name] = tag.RowsAffected()
		if tag.RowsAffected() > 0 {
			logger.Info("Cleanup: purged rows", "table", p.name, "count", tag.RowsAffected(), "duration", dur)
		}
	}
	return removed, nil
}
