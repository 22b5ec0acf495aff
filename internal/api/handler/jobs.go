package handler

import (
	"net/http"
	"strings"

	"github.com/power2u/traineasy-web/internal/api/respond"
	"github.com/power2u/traineasy-web/internal/notifications"
)

// JobKinds maps each cron endpoint slug onto the kinds it evaluates.
var JobKinds = map[string][]notifications.Kind{
	"good-morning":       {notifications.GoodMorning},
	"good-night":         {notifications.GoodNight},
	"water-reminder":     {notifications.WaterReminder},
	"meal-reminders":     notifications.MealReminders(),
	"weekly-measurement": {notifications.WeeklyMeasurementReminder},
	"weekly-weight":      {notifications.WeeklyWeightReminder},
}

// RunJob returns a handler running the given kinds once. The payload is the
// job Result for both outcomes; a failed recipient query answers 500 with
// success=false.
// @Summary Run a notification job
// @Description Evaluates every enabled user against the job's window and dedup rules and pushes due reminders. Called hourly by the external scheduler.
// @Tags notifications
// @Produce json
// @Security CronSecret
// @Success 200 {object} notifications.Result
// @Failure 401 {object} respond.ErrorResponse
// @Failure 500 {object} notifications.Result
// @Router /api/v1/notifications/{job} [post]
func (h *Handler) RunJob(kinds ...notifications.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.Jobs.Run(r.Context(), kinds...)
		if err != nil {
			res.Success = false
			if len(res.Errors) == 0 {
				res.AddErrorf("%v", err)
			}
			respond.WriteJSONObject(w, http.StatusInternalServerError, res)
			return
		}
		respond.WriteJSONObject(w, http.StatusOK, res)
	}
}

type broadcastRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Broadcast sends an admin message to every user with notifications on.
// @Summary Broadcast a notification
// @Description Sends one title/body to every enabled user immediately. Logged as admin_broadcast.
// @Tags notifications
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param body body broadcastRequest true "Message"
// @Success 200 {object} notifications.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Failure 500 {object} notifications.Result
// @Router /api/v1/notifications/broadcast [post]
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Title, req.Body = strings.TrimSpace(req.Title), strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "title and body are required")
		return
	}

	res, err := h.Jobs.Broadcast(r.Context(), req.Title, req.Body)
	if err != nil {
		res.Success = false
		if len(res.Errors) == 0 {
			res.AddErrorf("%v", err)
		}
		respond.WriteJSONObject(w, http.StatusInternalServerError, res)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, res)
}

type templateRequest struct {
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Active *bool  `json:"active"`
}

// ListTemplates returns every stored notification template.
// @Summary List notification templates
// @Tags admin
// @Produce json
// @Security AdminSecret
// @Success 200 {array} notifications.TemplateRow
// @Router /api/v1/admin/templates [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Templates.ListTemplates(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if rows == nil {
		rows = []notifications.TemplateRow{}
	}
	respond.WriteJSONObject(w, http.StatusOK, rows)
}

// SaveTemplate stores a template; active ones replace the kind's current
// text from the next job run.
// @Summary Save a notification template
// @Description Body may use {name} as a placeholder for the user's name. active defaults to true.
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param body body templateRequest true "Template"
// @Success 201 {object} notifications.TemplateRow
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/admin/templates [post]
func (h *Handler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !h.decode(w, r, &req) {
		return
	}
	kind, err := notifications.ParseKind(req.Kind)
	if err != nil || kind == notifications.AdminBroadcast {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_KIND", "unknown notification kind "+req.Kind)
		return
	}
	req.Title, req.Body = strings.TrimSpace(req.Title), strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "title and body are required")
		return
	}
	active := req.Active == nil || *req.Active

	row, err := h.Templates.SaveTemplate(r.Context(), notifications.Template{Kind: kind, Title: req.Title, Body: req.Body}, active)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if h.TemplateCache != nil {
		h.TemplateCache.Invalidate(kind)
	}
	respond.WriteJSONObject(w, http.StatusCreated, row)
}
