package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/power2u/traineasy-web/internal/api/handler"
	"github.com/power2u/traineasy-web/internal/cache"
	"github.com/power2u/traineasy-web/internal/catalog"
	"github.com/power2u/traineasy-web/internal/config"
	"github.com/power2u/traineasy-web/internal/db/dbtest"
	"github.com/power2u/traineasy-web/internal/notifications"
	"github.com/power2u/traineasy-web/internal/profile"
	"github.com/power2u/traineasy-web/internal/relay"
	"github.com/power2u/traineasy-web/internal/tracking"
)

const (
	cronSecret  = "cron-s3cret"
	adminSecret = "admin-s3cret"
	userID      = "0b3e0d5c-8e3a-4d44-9f2b-8d9b1b0c6a11"
)

type fakeJobs struct {
	mu         sync.Mutex
	kinds      [][]notifications.Kind
	broadcasts []string
	res        notifications.Result
	err        error
}

func (f *fakeJobs) Run(_ context.Context, kinds ...notifications.Kind) (notifications.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kinds)
	return f.res, f.err
}

func (f *fakeJobs) Broadcast(_ context.Context, title, _ string) (notifications.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, title)
	return f.res, f.err
}

type fakeTemplates struct {
	saved       []notifications.Template
	invalidated []notifications.Kind
}

func (f *fakeTemplates) ListTemplates(context.Context) ([]notifications.TemplateRow, error) {
	return nil, nil
}

func (f *fakeTemplates) SaveTemplate(_ context.Context, t notifications.Template, active bool) (notifications.TemplateRow, error) {
	f.saved = append(f.saved, t)
	return notifications.TemplateRow{ID: 1, Kind: t.Kind, Title: t.Title, Body: t.Body, IsActive: active}, nil
}

func (f *fakeTemplates) Invalidate(k notifications.Kind) { f.invalidated = append(f.invalidated, k) }

type pinger struct{ err error }

func (p pinger) HealthCheck(context.Context) error { return p.err }

type testServer struct {
	router    http.Handler
	jobs      *fakeJobs
	templates *fakeTemplates
	db        *dbtest.Fake
	cache     *cache.Cache
}

func newTestServer(t *testing.T, mutate ...func(*config.Config, *handler.Deps)) *testServer {
	t.Helper()
	cfg := &config.Config{
		CORSAllowOrigins: []string{"*"},
		CronSecret:       cronSecret,
		AdminSecret:      adminSecret,
	}
	c := cache.New(true)
	t.Cleanup(c.Close)
	fake := &dbtest.Fake{}
	jobs := &fakeJobs{res: notifications.Result{Success: true, NotificationsSent: 2, TotalUsers: 5}}
	tmpl := &fakeTemplates{}
	deps := handler.Deps{
		DB:            pinger{},
		Cache:         c,
		Jobs:          jobs,
		Templates:     tmpl,
		TemplateCache: tmpl,
		Relay:         relay.NewService(relay.NewMemoryStore(), 2),
		Tracking:      tracking.New(fake),
		Catalog:       catalog.New(fake, c),
		Profile:       profile.New(fake),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, m := range mutate {
		m(cfg, &deps)
	}
	return &testServer{
		router:    NewRouter(deps, cfg, prometheus.NewRegistry()),
		jobs:      jobs,
		templates: tmpl,
		db:        fake,
		cache:     c,
	}
}

func (s *testServer) do(method, path, bearer, body string, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// --------------------------------------------------------------------------
// Notification jobs
// --------------------------------------------------------------------------

func TestJobs_RejectBadSecret(t *testing.T) {
	s := newTestServer(t)
	for _, bearer := range []string{"", "wrong", adminSecret} {
		rec := s.do(http.MethodPost, "/api/v1/notifications/good-morning", bearer, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "bearer %q", bearer)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/good-morning", nil)
	req.Header.Set("Authorization", cronSecret)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "scheme is required")

	assert.Empty(t, s.jobs.kinds, "no work without a valid secret")
}

func TestJobs_EmptySecretLocksEndpoints(t *testing.T) {
	s := newTestServer(t, func(c *config.Config, _ *handler.Deps) { c.CronSecret = "" })
	rec := s.do(http.MethodPost, "/api/v1/notifications/good-night", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, s.jobs.kinds)
}

func TestJobs_RunsKinds(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/notifications/meal-reminders", cronSecret, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res notifications.Result
	decodeBody(t, rec, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.NotificationsSent)
	assert.Equal(t, 5, res.TotalUsers)
	assert.NotContains(t, rec.Body.String(), `"errors"`)

	require.Len(t, s.jobs.kinds, 1)
	assert.Equal(t, notifications.MealReminders(), s.jobs.kinds[0])

	for slug, kinds := range handler.JobKinds {
		rec := s.do(http.MethodPost, "/api/v1/notifications/"+slug, cronSecret, "")
		assert.Equal(t, http.StatusOK, rec.Code, slug)
		assert.Equal(t, kinds, s.jobs.kinds[len(s.jobs.kinds)-1], slug)
	}
}

func TestJobs_InfraFailureIs500(t *testing.T) {
	s := newTestServer(t)
	s.jobs.res = notifications.Result{}
	s.jobs.err = errors.New("list recipients: connection refused")

	rec := s.do(http.MethodPost, "/api/v1/notifications/water-reminder", cronSecret, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var res notifications.Result
	decodeBody(t, rec, &res)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "connection refused")
}

func TestBroadcast(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/notifications/broadcast", cronSecret, `{"title":"t","body":"b"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "cron secret is not an admin secret")

	rec = s.do(http.MethodPost, "/api/v1/notifications/broadcast", adminSecret, `{"title":" ","body":"b"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/notifications/broadcast", adminSecret, `{"title":"Gym closed","body":"Diwali"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Gym closed"}, s.jobs.broadcasts)
}

func TestSaveTemplate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/admin/templates", adminSecret, `{"kind":"bedtime","title":"t","body":"b"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/templates", adminSecret, `{"kind":"good_morning","title":"Rise, {name}","body":"Go"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []notifications.Kind{notifications.GoodMorning}, s.templates.invalidated)

	rec = s.do(http.MethodGet, "/api/v1/admin/templates", adminSecret, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// --------------------------------------------------------------------------
// Relay
// --------------------------------------------------------------------------

func TestRelay_EnqueueAndDrain(t *testing.T) {
	s := newTestServer(t)
	path := "/api/v1/relay/" + userID

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, path, "", `{"title":"a"}`).Code)

	for _, title := range []string{"a", "b", "c"} {
		rec := s.do(http.MethodPost, path, adminSecret, `{"title":"`+title+`","body":"x"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []relay.Item
	decodeBody(t, rec, &items)
	require.Len(t, items, 2, "capacity keeps the newest two")
	assert.Equal(t, "b", items[0].Title)
	assert.Equal(t, "c", items[1].Title)

	rec = s.do(http.MethodGet, path, "", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/relay/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --------------------------------------------------------------------------
// CRUD
// --------------------------------------------------------------------------

func TestTracking_ErrorMapping(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/users/42/water?date=2026-10-19", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")

	rec = s.do(http.MethodPut, "/api/v1/users/"+userID+"/meals/brunch", "", `{"date":"2026-10-19","completed":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/users/"+userID+"/water", "", `{"amount_ml":250,"extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")
	assert.Contains(t, rec.Body.String(), "INVALID_BODY")

	rec = s.do(http.MethodGet, "/api/v1/users/"+userID+"/weight/latest", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.db.RowErr = errors.New("pool exhausted")
	rec = s.do(http.MethodGet, "/api/v1/users/"+userID+"/water?date=2026-10-19", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pool exhausted")
}

func TestTracking_WaterDefaultDay(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/users/"+userID+"/water?date=2026-10-19", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var day tracking.WaterDay
	decodeBody(t, rec, &day)
	assert.Equal(t, "2026-10-19", day.Date)
	assert.Equal(t, tracking.DefaultWaterGoalML, day.GoalML)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestPreferences_Get(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/users/"+userID+"/preferences", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var p profile.Preferences
	decodeBody(t, rec, &p)
	assert.Equal(t, notifications.DefaultZone(), p.Timezone)
	assert.True(t, p.NotificationsEnabled)
}

func TestDevices(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/v1/users/"+userID+"/devices", "", `{"token":"fcm-1","platform":"android"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/users/"+userID+"/devices", "", `{"token":"fcm-unknown"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --------------------------------------------------------------------------
// Content
// --------------------------------------------------------------------------

func TestBanners_ETag(t *testing.T) {
	s := newTestServer(t)
	etag := s.cache.Set("catalog:banners", []byte(`[{"id":1,"title":"Sale"}]`), time.Minute)

	rec := s.do(http.MethodGet, "/api/v1/content/banners", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, etag, rec.Header().Get("ETag"))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = s.do(http.MethodGet, "/api/v1/content/banners", "", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestAdmin_RequiresSecret(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodDelete, "/api/v1/admin/packages/3", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/admin/packages/abc", adminSecret, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.db.Affected = 1
	rec = s.do(http.MethodDelete, "/api/v1/admin/packages/3", adminSecret, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// --------------------------------------------------------------------------
// Health, metrics, middleware
// --------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/db", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/cache", "", "").Code)

	down := newTestServer(t, func(_ *config.Config, d *handler.Deps) { d.DB = pinger{err: errors.New("down")} })
	assert.Equal(t, http.StatusServiceUnavailable, down.do(http.MethodGet, "/health/db", "", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health", "", "")

	rec := s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `traineasy_http_requests_total{method="GET",route="/health`)
	assert.Contains(t, body, "traineasy_http_request_duration_seconds_bucket")
}

func TestTimingHeader(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", "")
	assert.True(t, strings.HasSuffix(rec.Header().Get("X-Process-Time"), "ms"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config, _ *handler.Deps) {
		c.RateLimitEnabled = true
		c.RateLimitRequests = 4
		c.RateLimitWindow = time.Hour
	})
	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		codes[s.do(http.MethodGet, "/health", "", "").Code]++
	}
	assert.Equal(t, 2, codes[http.StatusOK], "burst is half the window allowance")
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}
