package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Result is the aggregate outcome of one job run. It is also the JSON body
// returned by the job endpoints.
type Result struct {
	Success           bool     `json:"success"`
	NotificationsSent int      `json:"notificationsSent"`
	TotalUsers        int      `json:"totalUsers"`
	Errors            []string `json:"errors,omitempty"`
}

// AddErrorf records a per-user failure.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("users=%d sent=%d errors=%d", r.TotalUsers, r.NotificationsSent, len(r.Errors))
}

// Runner executes notification jobs. Users are processed sequentially and
// each user's failure is isolated from the rest of the batch.
type Runner struct {
	store     Store
	sender    Sender
	templates *Templates
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithClock overrides time.Now, mainly for tests and manual CLI runs.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner wires a job runner.
func NewRunner(store Store, sender Sender, templates *Templates, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:     store,
		sender:    sender,
		templates: templates,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates kinds for every eligible user. The returned error is set
// only when the recipient list itself cannot be loaded; per-user problems
// end up in Result.Errors.
func (r *Runner) Run(ctx context.Context, kinds ...Kind) (Result, error) {
	if len(kinds) == 0 {
		return Result{}, fmt.Errorf("no notification kinds given")
	}
	ruleset := make([]Rule, 0, len(kinds))
	for _, k := range kinds {
		rule, ok := RuleFor(k)
		if !ok || k == AdminBroadcast {
			return Result{}, fmt.Errorf("kind %q cannot be run as a scheduled job", k)
		}
		ruleset = append(ruleset, rule)
	}
	return r.run(ctx, jobName(kinds), ruleset, nil)
}

// Broadcast sends an admin message to every user with notifications on.
func (r *Runner) Broadcast(ctx context.Context, title, body string) (Result, error) {
	if title == "" || body == "" {
		return Result{}, fmt.Errorf("broadcast needs a title and a body")
	}
	rule, _ := RuleFor(AdminBroadcast)
	tmpl := Template{Kind: AdminBroadcast, Title: title, Body: body}
	return r.run(ctx, string(AdminBroadcast), []Rule{rule}, &tmpl)
}

func (r *Runner) run(ctx context.Context, job string, ruleset []Rule, override *Template) (Result, error) {
	start := time.Now()
	now := r.now()
	defer func() { r.metrics.observe(job, time.Since(start).Seconds()) }()

	recipients, err := r.store.ListRecipients(ctx)
	if err != nil {
		for _, rule := range ruleset {
			r.metrics.run(rule.Kind, "error")
		}
		r.logger.Error("list recipients failed", "job", job, "error", err)
		res := Result{}
		res.AddErrorf("list recipients: %v", err)
		return res, fmt.Errorf("list recipients: %w", err)
	}

	templates := make(map[Kind]Template, len(ruleset))
	for _, rule := range ruleset {
		if override != nil {
			templates[rule.Kind] = *override
		} else {
			templates[rule.Kind] = r.templates.Resolve(ctx, rule.Kind)
		}
	}

	res := Result{Success: true}
	for _, rec := range recipients {
		counted := false
		for _, rule := range ruleset {
			if !rule.Eligible(rec) {
				continue
			}
			if !counted {
				res.TotalUsers++
				counted = true
			}
			sent, err := r.notifyUser(ctx, rule, rec, templates[rule.Kind], now)
			if sent {
				res.NotificationsSent++
				r.metrics.sentOne(rule.Kind)
			}
			if err != nil {
				r.metrics.userError(rule.Kind)
				r.logger.Warn("notification failed", "kind", rule.Kind, "user_id", rec.UserID, "error", err)
				res.AddErrorf("user %s (%s): %v", rec.UserID, rule.Kind, err)
			}
		}
	}

	for _, rule := range ruleset {
		r.metrics.run(rule.Kind, "ok")
	}
	r.logger.Info("notification job complete", "job", job, "summary", res.Summary(),
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// notifyUser walks one user through window → dedup → tokens → dispatch →
// log. sent is true once FCM accepted the message for at least one device,
// even if writing the log afterwards fails.
func (r *Runner) notifyUser(ctx context.Context, rule Rule, rec Recipient, tmpl Template, now time.Time) (sent bool, err error) {
	if !rule.Due(now, rec) {
		r.metrics.skip(rule.Kind, "window")
		return false, nil
	}

	dup, err := AlreadySent(ctx, r.store, rec.UserID, rule.Kind, now, rec.Timezone)
	if err != nil {
		r.metrics.skip(rule.Kind, "dedup_error")
		return false, err
	}
	if dup {
		r.metrics.skip(rule.Kind, "already_sent")
		return false, nil
	}

	tokens, err := r.store.DeviceTokens(ctx, rec.UserID)
	if err != nil {
		return false, fmt.Errorf("fetch device tokens: %w", err)
	}
	if len(tokens) == 0 {
		r.metrics.skip(rule.Kind, "no_tokens")
		return false, nil
	}

	msg := tmpl.Render(rec.Name)
	msg.Data["local_date"] = LocalDateKey(now, rec.Timezone)

	result, err := r.sender.Send(ctx, tokens, msg)
	if err != nil {
		return false, fmt.Errorf("dispatch: %w", err)
	}

	var errs []error
	if len(result.InvalidTokens) > 0 {
		n, err := r.store.DeleteTokens(ctx, result.InvalidTokens)
		if err != nil {
			errs = append(errs, fmt.Errorf("prune invalid tokens: %w", err))
		}
		r.metrics.pruned(n)
	}

	if result.SuccessCount == 0 {
		errs = append(errs, fmt.Errorf("all %d device(s) rejected the notification", result.FailureCount))
		return false, errors.Join(errs...)
	}

	if err := r.store.InsertLog(ctx, LogEntry{
		UserID:       rec.UserID,
		Kind:         rule.Kind,
		Title:        msg.Title,
		Body:         msg.Body,
		SentAt:       now,
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
	}); err != nil {
		errs = append(errs, fmt.Errorf("write notification log: %w", err))
	}
	return true, errors.Join(errs...)
}

func jobName(kinds []Kind) string {
	if len(kinds) == 1 {
		return string(kinds[0])
	}
	if len(kinds) == len(MealReminders()) && kinds[0] == MealReminders()[0] {
		return "meal_reminders"
	}
	return fmt.Sprintf("%d_kinds", len(kinds))
}
