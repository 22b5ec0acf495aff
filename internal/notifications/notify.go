// Package notifications evaluates timezone-aware reminder windows and sends
// push notifications through FCM.
//
// Pipeline per job run: list eligible users → evaluate local window →
// dedup against notification_logs → resolve template → multicast → log +
// prune invalid tokens. An external cron drives the runs; nothing here
// schedules itself.
package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/power2u/traineasy-web/internal/meal"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// DefaultTimezone is the fallback zone until SetDefaultZone overrides it.
	DefaultTimezone = "Asia/Kolkata"

	goodMorningHour   = 7
	goodNightMinHour  = 20
	goodNightMaxHour  = 23
	goodNightOffset   = 60 // minutes after dinner
	weeklyMeasureHour = 10
	weeklyWeightHour  = 8

	// FCM rejects multicast messages with more than 500 tokens.
	maxMulticastTokens = 500

	templateCacheTTL = 5 * time.Minute
)

var waterReminderHours = []int{10, 12, 14, 16, 18}

// ErrDispatchDisabled is returned when no FCM credentials are configured.
var ErrDispatchDisabled = errors.New("push delivery is not configured")

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Recipient is a user's notification profile joined with preferences.
type Recipient struct {
	UserID               string
	Name                 string
	Timezone             string
	NotificationsEnabled bool
	MealReminders        bool
	WaterReminders       bool
	WeeklyReminders      bool
	MealTimes            meal.Times
}

// Message is the payload handed to the dispatcher.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// SendResult reports the outcome of one multicast.
type SendResult struct {
	SuccessCount  int      `json:"successCount"`
	FailureCount  int      `json:"failureCount"`
	InvalidTokens []string `json:"invalidTokens,omitempty"`
}

// LogEntry is an insert-only record of a delivered notification.
type LogEntry struct {
	UserID       string
	Kind         Kind
	Title        string
	Body         string
	SentAt       time.Time
	SuccessCount int
	FailureCount int
}

// Template is an admin-configurable title/body for a kind. {name} is
// replaced with the recipient's display name.
type Template struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Store is the database collaborator used by job runs.
type Store interface {
	ListRecipients(ctx context.Context) ([]Recipient, error)
	AlreadySent(ctx context.Context, userID string, kind Kind, since time.Time) (bool, error)
	DeviceTokens(ctx context.Context, userID string) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) (int64, error)
	InsertLog(ctx context.Context, entry LogEntry) error
	ActiveTemplate(ctx context.Context, kind Kind) (Template, bool, error)
}

// Sender delivers one message to a set of device tokens.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) (SendResult, error)
}
