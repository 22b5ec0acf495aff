package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/power2u/traineasy-web/internal/api/respond"
	"github.com/power2u/traineasy-web/internal/cache"
	"github.com/power2u/traineasy-web/internal/catalog"
	"github.com/power2u/traineasy-web/internal/validate"
)

type cachedList func(ctx context.Context) (data []byte, etag string, hit bool, err error)

// serveCached writes a cached JSON list with ETag and 304 support.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, list cachedList, ttl time.Duration) {
	data, etag, hit, err := list(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, hit)
}

// GetBanners returns the banners live right now.
// @Summary List active banners
// @Description Served from the in-memory cache with ETag support.
// @Tags content
// @Produce json
// @Success 200 {array} catalog.Banner
// @Success 304 "Not modified"
// @Router /api/v1/content/banners [get]
func (h *Handler) GetBanners(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, h.Catalog.ActiveBanners, cache.TTLBanners)
}

// GetPackages returns the purchasable packages.
// @Summary List active packages
// @Description Served from the in-memory cache with ETag support.
// @Tags content
// @Produce json
// @Success 200 {array} catalog.Package
// @Success 304 "Not modified"
// @Router /api/v1/content/packages [get]
func (h *Handler) GetPackages(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, h.Catalog.ActivePackages, cache.TTLPackages)
}

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, validate.Errorf("id must be a positive integer")
	}
	return id, nil
}

// SaveBanner creates a banner (POST) or replaces one (PUT /{id}).
// @Summary Create or update a banner
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param body body catalog.Banner true "Banner"
// @Success 200 {object} catalog.Banner
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/admin/banners [post]
func (h *Handler) SaveBanner(w http.ResponseWriter, r *http.Request) {
	var b catalog.Banner
	if !h.decode(w, r, &b) {
		return
	}
	b.ID = 0
	if chi.URLParam(r, "id") != "" {
		id, err := idParam(r)
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		b.ID = id
	}
	out, err := h.Catalog.SaveBanner(r.Context(), b)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}

// DeactivateBanner hides a banner.
func (h *Handler) DeactivateBanner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if err := h.Catalog.DeactivateBanner(r.Context(), id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SavePackage upserts a package by name.
// @Summary Create or update a package
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param body body catalog.Package true "Package"
// @Success 200 {object} catalog.Package
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/admin/packages [post]
func (h *Handler) SavePackage(w http.ResponseWriter, r *http.Request) {
	var p catalog.Package
	if !h.decode(w, r, &p) {
		return
	}
	out, err := h.Catalog.SavePackage(r.Context(), p)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}

// DeactivatePackage withdraws a package from sale.
func (h *Handler) DeactivatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if err := h.Catalog.DeactivatePackage(r.Context(), id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
