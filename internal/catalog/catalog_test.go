package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/power2u/traineasy-web/internal/cache"
	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/db/dbtest"
	"github.com/power2u/traineasy-web/internal/validate"
)

func newTestStore(t *testing.T) (*Store, *dbtest.Fake, *cache.Cache) {
	t.Helper()
	c := cache.New(true)
	t.Cleanup(c.Close)
	f := &dbtest.Fake{}
	return New(f, c), f, c
}

func TestActiveBanners_CacheHit(t *testing.T) {
	s, f, c := newTestStore(t)
	want := c.Set(bannersKey, []byte(`[{"id":1}]`), time.Minute)

	data, etag, hit, err := s.ActiveBanners(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, etag)
	assert.JSONEq(t, `[{"id":1}]`, string(data))
	assert.Empty(t, f.Calls)
}

func TestActiveBanners_QueryError(t *testing.T) {
	s, f, _ := newTestStore(t)
	f.QueryErr = errors.New("down")
	_, _, _, err := s.ActiveBanners(context.Background())
	require.Error(t, err)
	assert.Equal(t, "active_banners", f.Last().SQL)
}

func TestSaveBanner_Validation(t *testing.T) {
	s, f, _ := newTestStore(t)
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	for name, b := range map[string]Banner{
		"no title":  {Title: " "},
		"bad image":  {Title: "Diwali", ImageURL: "ftp://x/y.png"},
		"bad link":  {Title: "Diwali", LinkURL: "/relative"},
		"end first": {Title: "Diwali", StartsAt: &start, EndsAt: &end},
	} {
		b := b // per-iteration copy (go directive < 1.22)
		t.Run(name, func(t *testing.T) {
			_, err := s.SaveBanner(context.Background(), b)
			assert.ErrorIs(t, err, validate.ErrInvalid)
		})
	}
	assert.Empty(t, f.Calls)
}

func TestSaveBanner_InvalidatesCache(t *testing.T) {
	s, f, c := newTestStore(t)
	c.Set(bannersKey, []byte(`[]`), time.Minute)
	f.PushRow(7)

	b, err := s.SaveBanner(context.Background(), Banner{Title: "  New plan  ", ImageURL: "https://cdn.example.com/b.png", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 7, b.ID)
	assert.Equal(t, "New plan", b.Title)
	assert.Contains(t, f.Last().SQL, "INSERT INTO banners")

	_, _, ok := c.Get(bannersKey)
	assert.False(t, ok)
}

func TestSaveBanner_UpdateMissing(t *testing.T) {
	s, f, _ := newTestStore(t)
	_, err := s.SaveBanner(context.Background(), Banner{ID: 99, Title: "Gone"})
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Contains(t, f.Last().SQL, "UPDATE banners")
}

func TestDeactivate(t *testing.T) {
	s, f, c := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.DeactivatePackage(ctx, 0), validate.ErrInvalid)

	f.Affected = 0
	assert.ErrorIs(t, s.DeactivatePackage(ctx, 3), db.ErrNotFound)

	c.Set(packagesKey, []byte(`[]`), time.Minute)
	f.Affected = 1
	require.NoError(t, s.DeactivatePackage(ctx, 3))
	_, _, ok := c.Get(packagesKey)
	assert.False(t, ok)
	assert.Equal(t, []any{3}, f.Last().Args)
}

func TestSavePackage_Normalize(t *testing.T) {
	s, f, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.SavePackage(ctx, Package{Name: "Pro", DurationDays: 0})
	assert.ErrorIs(t, err, validate.ErrInvalid)
	_, err = s.SavePackage(ctx, Package{Name: "Pro", DurationDays: 30, PriceCents: -1})
	assert.ErrorIs(t, err, validate.ErrInvalid)
	_, err = s.SavePackage(ctx, Package{Name: "Pro", DurationDays: 30, Currency: "rupee"})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	f.PushRow(4)
	p, err := s.SavePackage(ctx, Package{Name: " Pro ", DurationDays: 30, PriceCents: 99900, Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, []string{}, p.Features)
	assert.Contains(t, f.Last().SQL, "ON CONFLICT (name)")
}
