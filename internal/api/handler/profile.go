package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/power2u/traineasy-web/internal/api/respond"
	"github.com/power2u/traineasy-web/internal/profile"
)

// GetPreferences returns a user's reminder settings.
// @Summary Get notification preferences
// @Tags preferences
// @Produce json
// @Param userID path string true "User UUID"
// @Success 200 {object} profile.Preferences
// @Router /api/v1/users/{userID}/preferences [get]
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profile.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, p)
}

// UpdatePreferences applies a partial update. Omitted fields keep their value.
// @Summary Update notification preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Param userID path string true "User UUID"
// @Param body body profile.Update true "Changed fields"
// @Success 200 {object} profile.Preferences
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/users/{userID}/preferences [put]
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var u profile.Update
	if !h.decode(w, r, &u) {
		return
	}
	p, err := h.Profile.Update(r.Context(), chi.URLParam(r, "userID"), u)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, p)
}

type deviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RegisterDevice stores an FCM token for the user.
// @Summary Register a device token
// @Tags devices
// @Accept json
// @Param userID path string true "User UUID"
// @Param body body deviceRequest true "Token"
// @Success 204
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/users/{userID}/devices [post]
func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Profile.RegisterToken(r.Context(), chi.URLParam(r, "userID"), req.Token, req.Platform); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnregisterDevice removes one of the user's tokens, typically on logout.
// @Summary Unregister a device token
// @Tags devices
// @Accept json
// @Param userID path string true "User UUID"
// @Param body body deviceRequest true "Token"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/users/{userID}/devices [delete]
func (h *Handler) UnregisterDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Profile.UnregisterToken(r.Context(), chi.URLParam(r, "userID"), req.Token); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
