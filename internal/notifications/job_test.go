package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/power2u/traineasy-web/internal/meal"
)

func kolkataUser(id string) Recipient {
	return Recipient{
		UserID:               id,
		Name:                 "Asha",
		Timezone:             "Asia/Kolkata",
		NotificationsEnabled: true,
		MealReminders:        true,
		WaterReminders:       true,
		WeeklyReminders:      true,
	}
}

func TestGoodMorning_SendsOncePerDay(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}
	sender := &fakeSender{}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	res, err := newTestRunner(store, sender, now).Run(ctx, GoodMorning)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.TotalUsers)
	assert.Equal(t, 1, res.NotificationsSent)
	assert.Empty(t, res.Errors)

	logs := store.logsFor(GoodMorning)
	require.Len(t, logs, 1)
	assert.Equal(t, "Good morning, Asha!", logs[0].Title)
	assert.Equal(t, 1, logs[0].SuccessCount)

	// Same day, later tick inside the hour: already sent.
	later := now.Add(40 * time.Minute)
	res, err = newTestRunner(store, sender, later).Run(ctx, GoodMorning)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NotificationsSent)
	assert.Len(t, sender.calls, 1)

	// Next day it fires again.
	tomorrow := now.Add(24 * time.Hour)
	res, err = newTestRunner(store, sender, tomorrow).Run(ctx, GoodMorning)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NotificationsSent)
}

func TestGoodMorning_OutsideWindowSkips(t *testing.T) {
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}
	sender := &fakeSender{}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 9, 0)
	res, err := newTestRunner(store, sender, now).Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalUsers)
	assert.Zero(t, res.NotificationsSent)
	assert.Empty(t, sender.calls)
}

func TestGoodNight_UsesDinnerAnchor(t *testing.T) {
	u := kolkataUser("u1")
	u.MealTimes.Dinner = "19:30"
	store := newMemStore(u)
	store.tokens["u1"] = []string{"tok-a"}
	sender := &fakeSender{}
	ctx := context.Background()

	at19 := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 19, 45)
	res, err := newTestRunner(store, sender, at19).Run(ctx, GoodNight)
	require.NoError(t, err)
	assert.Zero(t, res.NotificationsSent)

	at20 := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 20, 0)
	res, err = newTestRunner(store, sender, at20).Run(ctx, GoodNight)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NotificationsSent)
}

func TestWeeklyMeasurement_SundayTenOnly(t *testing.T) {
	const tz = "Asia/Kolkata"
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}
	sender := &fakeSender{}
	ctx := context.Background()

	// Saturday 10:00: wrong weekday.
	sat := mustLocalUTC(t, tz, 2026, time.October, 17, 10, 0)
	res, err := newTestRunner(store, sender, sat).Run(ctx, WeeklyMeasurementReminder)
	require.NoError(t, err)
	assert.Zero(t, res.NotificationsSent)

	// Hourly-or-faster ticks all through Sunday 10:xx: exactly one send.
	sent := 0
	for _, minute := range []int{0, 15, 30, 59} {
		now := mustLocalUTC(t, tz, 2026, time.October, 18, 10, minute)
		res, err := newTestRunner(store, sender, now).Run(ctx, WeeklyMeasurementReminder)
		require.NoError(t, err)
		sent += res.NotificationsSent
	}
	assert.Equal(t, 1, sent)

	// Sunday 11:00: wrong hour.
	sun11 := mustLocalUTC(t, tz, 2026, time.October, 18, 11, 0)
	res, err = newTestRunner(store, sender, sun11).Run(ctx, WeeklyMeasurementReminder)
	require.NoError(t, err)
	assert.Zero(t, res.NotificationsSent)

	// Following Sunday is a new week.
	next := mustLocalUTC(t, tz, 2026, time.October, 25, 10, 5)
	res, err = newTestRunner(store, sender, next).Run(ctx, WeeklyMeasurementReminder)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NotificationsSent)
}

func TestWeeklyMeasurement_RespectsSubPreference(t *testing.T) {
	u := kolkataUser("u1")
	u.WeeklyReminders = false
	store := newMemStore(u)
	store.tokens["u1"] = []string{"tok-a"}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.October, 18, 10, 0)
	res, err := newTestRunner(store, &fakeSender{}, now).Run(context.Background(), WeeklyMeasurementReminder)
	require.NoError(t, err)
	assert.Zero(t, res.TotalUsers)
	assert.Zero(t, res.NotificationsSent)
}

func TestMealReminders_FireAtEachMealHour(t *testing.T) {
	u := kolkataUser("u1")
	u.MealTimes = meal.Times{Breakfast: "08:00", Lunch: "13:30", Dinner: "19:30"}
	store := newMemStore(u)
	store.tokens["u1"] = []string{"tok-a"}
	sender := &fakeSender{}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 13, 10)
	res, err := newTestRunner(store, sender, now).Run(context.Background(), MealReminders()...)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalUsers)
	assert.Equal(t, 1, res.NotificationsSent)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "Lunch time", sender.calls[0].Msg.Title)
	assert.Equal(t, string(MealReminder(meal.Lunch)), sender.calls[0].Msg.Data["kind"])
	assert.Len(t, store.logsFor(MealReminder(meal.Lunch)), 1)
}

func TestWaterReminder_HourlyDedup(t *testing.T) {
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}
	sender := &fakeSender{}
	ctx := context.Background()

	at10 := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 10, 0)
	at1030 := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 10, 30)
	at12 := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 12, 0)

	for _, now := range []time.Time{at10, at1030, at12} {
		_, err := newTestRunner(store, sender, now).Run(ctx, WaterReminder)
		require.NoError(t, err)
	}
	assert.Len(t, store.logsFor(WaterReminder), 2)
}

func TestRun_PerUserFailuresAreIsolated(t *testing.T) {
	store := newMemStore(kolkataUser("dedup-broken"), kolkataUser("tokens-broken"), kolkataUser("no-tokens"), kolkataUser("ok"))
	store.dedupErr["dedup-broken"] = errBoom
	store.tokens["dedup-broken"] = []string{"t0"}
	store.tokensErr["tokens-broken"] = errBoom
	store.tokens["ok"] = []string{"t1"}
	sender := &fakeSender{}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	res, err := newTestRunner(store, sender, now).Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.TotalUsers)
	assert.Equal(t, 1, res.NotificationsSent)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "dedup-broken")
	assert.Contains(t, res.Errors[1], "tokens-broken")

	// A failed dedup check never sends.
	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"t1"}, sender.calls[0].Tokens)
}

func TestRun_ListFailureIsInfrastructureError(t *testing.T) {
	store := newMemStore()
	store.listErr = errBoom

	res, err := newTestRunner(store, &fakeSender{}, time.Now()).Run(context.Background(), GoodMorning)
	require.ErrorIs(t, err, errBoom)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Errors)
}

func TestRun_DispatchFailureDoesNotLog(t *testing.T) {
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}
	sender := &fakeSender{err: errBoom}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	res, err := newTestRunner(store, sender, now).Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	assert.Zero(t, res.NotificationsSent)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "dispatch")
	assert.Empty(t, store.logsFor(GoodMorning))
}

func TestRun_NilSenderReportsDisabled(t *testing.T) {
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}
	var sender *FCMSender

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	res, err := newTestRunner(store, sender, now).Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], ErrDispatchDisabled.Error())
}

func TestRun_PrunesInvalidTokens(t *testing.T) {
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"good", "stale", "good"}
	sender := &fakeSender{invalid: map[string]bool{"stale": true}}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	res, err := newTestRunner(store, sender, now).Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NotificationsSent)
	assert.Equal(t, []string{"stale"}, store.deleted)
	assert.Equal(t, []string{"good", "good"}, store.tokens["u1"])

	logs := store.logsFor(GoodMorning)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].SuccessCount)
	assert.Equal(t, 1, logs[0].FailureCount)
}

func TestRun_AllTokensRejectedIsAnError(t *testing.T) {
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"stale"}
	sender := &fakeSender{invalid: map[string]bool{"stale": true}}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	res, err := newTestRunner(store, sender, now).Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	assert.Zero(t, res.NotificationsSent)
	assert.Len(t, res.Errors, 1)
	assert.Empty(t, store.logsFor(GoodMorning))
	assert.Empty(t, store.tokens["u1"])
}

func TestRun_UsesActiveTemplate(t *testing.T) {
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}
	store.templates[GoodMorning] = Template{Kind: GoodMorning, Title: "Rise and shine {name}", Body: "Let's go"}
	sender := &fakeSender{}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	_, err := newTestRunner(store, sender, now).Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "Rise and shine Asha", sender.calls[0].Msg.Title)
	assert.Equal(t, "2026-03-02", sender.calls[0].Msg.Data["local_date"])
}

func TestRun_RejectsBroadcastAndUnknownKinds(t *testing.T) {
	r := newTestRunner(newMemStore(), &fakeSender{}, time.Now())
	_, err := r.Run(context.Background(), AdminBroadcast)
	assert.Error(t, err)
	_, err = r.Run(context.Background(), Kind("nope"))
	assert.Error(t, err)
	_, err = r.Run(context.Background())
	assert.Error(t, err)
}

func TestBroadcast_IgnoresWindowsAndDedup(t *testing.T) {
	off := kolkataUser("off")
	off.NotificationsEnabled = false
	store := newMemStore(kolkataUser("u1"), kolkataUser("u2"), off)
	store.tokens["u1"] = []string{"a"}
	store.tokens["u2"] = []string{"b"}
	store.tokens["off"] = []string{"c"}
	sender := &fakeSender{}
	r := newTestRunner(store, sender, time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		res, err := r.Broadcast(context.Background(), "New plan", "Hi {name}, check the new packages")
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalUsers)
		assert.Equal(t, 2, res.NotificationsSent)
	}
	assert.Len(t, store.logsFor(AdminBroadcast), 4)
	assert.Equal(t, "Hi Asha, check the new packages", sender.calls[0].Msg.Body)

	_, err := r.Broadcast(context.Background(), "", "body")
	assert.Error(t, err)
}

func TestRun_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	store := newMemStore(kolkataUser("u1"))
	store.tokens["u1"] = []string{"tok-a"}

	now := mustLocalUTC(t, "Asia/Kolkata", 2026, time.March, 2, 7, 0)
	r := newTestRunner(store, &fakeSender{}, now)
	WithMetrics(m)(r)

	_, err := r.Run(context.Background(), GoodMorning)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), GoodMorning)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sent.WithLabelValues(string(GoodMorning))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped.WithLabelValues(string(GoodMorning), "already_sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues(string(GoodMorning), "ok")))
}
