// Package catalog manages the admin-curated content shown in the app:
// promotional banners and subscription packages. Public reads are served
// through the shared TTL cache; admin writes invalidate it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/power2u/traineasy-web/internal/cache"
	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/validate"
)

const (
	bannersKey  = "catalog:banners"
	packagesKey = "catalog:packages"
)

// Store runs catalog statements through an injected Querier.
type Store struct {
	db    db.Querier
	cache *cache.Cache
}

// New creates a Store. c may be a disabled cache.
func New(q db.Querier, c *cache.Cache) *Store {
	return &Store{db: q, cache: c}
}

// --------------------------------------------------------------------------
// Banners
// --------------------------------------------------------------------------

// Banner is a promotional image on the home screen.
type Banner struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"image_url,omitempty"`
	LinkURL   string     `json:"link_url,omitempty"`
	SortOrder int        `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

func (b Banner) validate() error {
	if err := validate.Required("title", b.Title); err != nil {
		return err
	}
	for field, v := range map[string]string{"image_url": b.ImageURL, "link_url": b.LinkURL} {
		if v == "" {
			continue
		}
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return validate.Errorf("%s must be an http(s) URL", field)
		}
	}
	if b.StartsAt != nil && b.EndsAt != nil && !b.EndsAt.After(*b.StartsAt) {
		return validate.Errorf("ends_at must be after starts_at")
	}
	return nil
}

// ActiveBanners returns the JSON array of banners live right now, cached for
// cache.TTLBanners, with its ETag.
func (s *Store) ActiveBanners(ctx context.Context) (data []byte, etag string, hit bool, err error) {
	if data, etag, ok := s.cache.Get(bannersKey); ok {
		return data, etag, true, nil
	}
	rows, err := s.db.Query(ctx, "active_banners")
	if err != nil {
		return nil, "", false, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	out := []Banner{}
	for rows.Next() {
		var b Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.SortOrder, &b.IsActive, &b.StartsAt, &b.EndsAt); err != nil {
			return nil, "", false, fmt.Errorf("scan banner: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, "", false, fmt.Errorf("list banners: %w", err)
	}
	data, err = json.Marshal(out)
	if err != nil {
		return nil, "", false, err
	}
	return data, s.cache.Set(bannersKey, data, cache.TTLBanners), false, nil
}

// SaveBanner creates b when b.ID is zero and updates it otherwise.
func (s *Store) SaveBanner(ctx context.Context, b Banner) (Banner, error) {
	b.Title = strings.TrimSpace(b.Title)
	if err := b.validate(); err != nil {
		return Banner{}, err
	}

	var row pgx.Row
	if b.ID == 0 {
		row = s.db.QueryRow(ctx, `
			INSERT INTO banners (title, image_url, link_url, sort_order, is_active, starts_at, ends_at)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7)
			RETURNING id`,
			b.Title, b.ImageURL, b.LinkURL, b.SortOrder, b.IsActive, b.StartsAt, b.EndsAt)
	} else {
		row = s.db.QueryRow(ctx, `
			UPDATE banners SET title = $2, image_url = NULLIF($3, ''), link_url = NULLIF($4, ''),
				sort_order = $5, is_active = $6, starts_at = $7, ends_at = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING id`,
			b.ID, b.Title, b.ImageURL, b.LinkURL, b.SortOrder, b.IsActive, b.StartsAt, b.EndsAt)
	}
	if err := row.Scan(&b.ID); err != nil {
		if err = db.NotFound(err); errors.Is(err, db.ErrNotFound) {
			return Banner{}, err
		}
		return Banner{}, fmt.Errorf("save banner: %w", err)
	}
	s.cache.Delete(bannersKey)
	return b, nil
}

// DeactivateBanner hides a banner without deleting it.
func (s *Store) DeactivateBanner(ctx context.Context, id int) error {
	return s.deactivate(ctx, "UPDATE banners SET is_active = false, updated_at = NOW() WHERE id = $1", id, bannersKey)
}

// --------------------------------------------------------------------------
// Packages
// --------------------------------------------------------------------------

// Package is a purchasable training plan.
type Package struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	PriceCents   int      `json:"price_cents"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features"`
	IsActive     bool     `json:"is_active"`
	SortOrder    int      `json:"sort_order"`
}

func (p *Package) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = "INR"
	}
	if err := validate.Required("name", p.Name); err != nil {
		return err
	}
	if len(p.Currency) != 3 {
		return validate.Errorf("currency must be a 3-letter ISO code")
	}
	if p.PriceCents < 0 {
		return validate.Errorf("price_cents must not be negative")
	}
	if p.DurationDays <= 0 {
		return validate.Errorf("duration_days must be positive")
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return nil
}

// ActivePackages returns the JSON array of purchasable packages, cached for
// cache.TTLPackages, with its ETag.
func (s *Store) ActivePackages(ctx context.Context) (data []byte, etag string, hit bool, err error) {
	if data, etag, ok := s.cache.Get(packagesKey); ok {
		return data, etag, true, nil
	}
	rows, err := s.db.Query(ctx, "active_packages")
	if err != nil {
		return nil, "", false, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	out := []Package{}
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Currency,
			&p.DurationDays, &p.Features, &p.IsActive, &p.SortOrder); err != nil {
			return nil, "", false, fmt.Errorf("scan package: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, "", false, fmt.Errorf("list packages: %w", err)
	}
	data, err = json.Marshal(out)
	if err != nil {
		return nil, "", false, err
	}
	return data, s.cache.Set(packagesKey, data, cache.TTLPackages), false, nil
}

// SavePackage upserts a package by name.
func (s *Store) SavePackage(ctx context.Context, p Package) (Package, error) {
	if err := p.normalize(); err != nil {
		return Package{}, err
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO packages (name, description, price_cents, currency, duration_days, features, is_active, sort_order)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description, price_cents = EXCLUDED.price_cents,
			currency = EXCLUDED.currency, duration_days = EXCLUDED.duration_days,
			features = EXCLUDED.features, is_active = EXCLUDED.is_active,
			sort_order = EXCLUDED.sort_order, updated_at = NOW()
		RETURNING id`,
		p.Name, p.Description, p.PriceCents, p.Currency, p.DurationDays, p.Features, p.IsActive, p.SortOrder,
	).Scan(&p.ID)
	if err != nil {
		return Package{}, fmt.Errorf("save package: %w", err)
	}
	s.cache.Delete(packagesKey)
	return p, nil
}

// DeactivatePackage withdraws a package from sale.
func (s *Store) DeactivatePackage(ctx context.Context, id int) error {
	return s.deactivate(ctx, "UPDATE packages SET is_active = false, updated_at = NOW() WHERE id = $1", id, packagesKey)
}

func (s *Store) deactivate(ctx context.Context, sql string, id int, key string) error {
	if id <= 0 {
		return validate.Errorf("id must be positive")
	}
	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("deactivate %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	s.cache.Delete(key)
	return nil
}
