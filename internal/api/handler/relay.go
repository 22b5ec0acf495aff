package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/power2u/traineasy-web/internal/api/respond"
	"github.com/power2u/traineasy-web/internal/validate"
)

type relayRequest struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// EnqueueRelay queues a browser notification for one user.
// @Summary Queue a browser notification
// @Description Keeps only the newest items per user; older ones are dropped.
// @Tags relay
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param userID path string true "User UUID"
// @Param body body relayRequest true "Notification"
// @Success 201 {object} relay.Item
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/relay/{userID} [post]
func (h *Handler) EnqueueRelay(w http.ResponseWriter, r *http.Request) {
	uid, err := validate.UserID(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	var req relayRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.Relay.Enqueue(r.Context(), uid, req.Title, req.Body, req.Data)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, item)
}

// DrainRelay returns and clears a user's pending browser notifications,
// oldest first.
// @Summary Fetch pending browser notifications
// @Tags relay
// @Produce json
// @Param userID path string true "User UUID"
// @Success 200 {array} relay.Item
// @Router /api/v1/relay/{userID} [get]
func (h *Handler) DrainRelay(w http.ResponseWriter, r *http.Request) {
	uid, err := validate.UserID(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	items, err := h.Relay.Drain(r.Context(), uid)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, items)
}
