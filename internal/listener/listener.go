// Package listener provides a Postgres LISTEN/NOTIFY consumer for admin
// broadcasts. It holds a dedicated pgx connection (not from the pool)
// listening on the `broadcast_queued` channel.
//
// The admin panel inserts into notification_broadcasts; the table trigger
// fires pg_notify with the new row id and this consumer claims the row,
// sends it to every user through the notification runner, and records the
// outcome.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/power2u/traineasy-web/internal/notifications"
)

const (
	channel          = "broadcast_queued"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Queue is the broadcast table as seen by the consumer.
type Queue interface {
	ClaimBroadcast(ctx context.Context, id int64) (notifications.QueuedBroadcast, bool, error)
	FinishBroadcast(ctx context.Context, id int64, res notifications.Result) error
	PendingBroadcasts(ctx context.Context) ([]int64, error)
}

// Broadcaster sends one admin message to every enabled user.
type Broadcaster interface {
	Broadcast(ctx context.Context, title, body string) (notifications.Result, error)
}

// Processor claims and sends queued broadcasts.
type Processor struct {
	queue  Queue
	sender Broadcaster
	logger *slog.Logger
}

// NewProcessor wires a Processor.
func NewProcessor(q Queue, b Broadcaster, logger *slog.Logger) *Processor {
	return &Processor{queue: q, sender: b, logger: logger}
}

// Handle sends broadcast id unless another consumer already claimed it.
// It reports whether this call sent it.
func (p *Processor) Handle(ctx context.Context, id int64) (bool, error) {
	b, ok, err := p.queue.ClaimBroadcast(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	res, err := p.sender.Broadcast(ctx, b.Title, b.Body)
	if err != nil {
		res.Success = false
		res.AddErrorf("%v", err)
	}
	if ferr := p.queue.FinishBroadcast(ctx, id, res); ferr != nil {
		return true, fmt.Errorf("finish broadcast %d: %w", id, ferr)
	}
	p.logger.Info("Broadcast sent", "broadcast_id", id, "summary", res.Summary())
	return true, err
}

// Sweep sends every broadcast still pending, catching up on notifications
// that arrived while no listener was connected.
func (p *Processor) Sweep(ctx context.Context) (int, error) {
	ids, err := p.queue.PendingBroadcasts(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, id := range ids {
		ok, err := p.Handle(ctx, id)
		if err != nil {
			p.logger.Warn("Pending broadcast failed", "broadcast_id", id, "error", err)
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// ParsePayload decodes the pg_notify payload, the row id as text.
func ParsePayload(payload string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid broadcast id %q", payload)
	}
	return id, nil
}

// Start opens a dedicated connection and listens on the broadcast_queued
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, p *Processor, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, p, logger)
		if ctx.Err() != nil {
			logger.Info("Broadcast listener stopped (context cancelled)")
			return
		}

		logger.Error("Broadcast listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, p *Processor, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Broadcast listener connected", "channel", channel)

	go func() {
		if n, err := p.Sweep(ctx); err != nil {
			logger.Warn("Pending broadcast sweep failed", "error", err)
		} else if n > 0 {
			logger.Info("Pending broadcasts sent", "count", n)
		}
	}()

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		id, err := ParsePayload(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse broadcast event",
				"payload", notification.Payload, "error", err)
			continue
		}
		logger.Info("Broadcast queued", "broadcast_id", id)

		// Send asynchronously to avoid blocking the listener
		go func() {
			if _, err := p.Handle(ctx, id); err != nil {
				logger.Warn("Broadcast failed", "broadcast_id", id, "error", err)
			}
		}()
	}
}
