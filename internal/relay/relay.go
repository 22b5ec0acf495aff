// Package relay holds browser notifications per user until the web client
// polls for them. Each user's queue is bounded to the most recent N items.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/power2u/traineasy-web/internal/validate"
)

// DefaultCapacity is used when the configured capacity is not positive.
const DefaultCapacity = 50

// Item is one queued browser notification.
type Item struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store persists per-user queues. Push must keep only the newest capacity
// items; Drain returns them oldest first and empties the queue.
type Store interface {
	Push(ctx context.Context, userID string, item Item, capacity int) error
	Drain(ctx context.Context, userID string) ([]Item, error)
	Len(ctx context.Context, userID string) (int, error)
}

// Service owns the relay queues.
type Service struct {
	store    Store
	capacity int
	now      func() time.Time
}

// NewService creates a relay backed by store.
func NewService(store Store, capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{store: store, capacity: capacity, now: time.Now}
}

// Capacity returns the per-user bound.
func (s *Service) Capacity() int { return s.capacity }

// Enqueue adds a notification for userID, evicting the oldest item when the
// queue is full.
func (s *Service) Enqueue(ctx context.Context, userID, title, body string, data map[string]string) (Item, error) {
	if userID == "" {
		return Item{}, validate.Errorf("relay: empty user id")
	}
	if title == "" && body == "" {
		return Item{}, validate.Errorf("relay: empty notification")
	}
	item := Item{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Push(ctx, userID, item, s.capacity); err != nil {
		return Item{}, fmt.Errorf("relay enqueue: %w", err)
	}
	return item, nil
}

// Drain returns and removes every pending item for userID.
func (s *Service) Drain(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.store.Drain(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("relay drain: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Pending reports how many items wait for userID.
func (s *Service) Pending(ctx context.Context, userID string) (int, error) {
	return s.store.Len(ctx, userID)
}
