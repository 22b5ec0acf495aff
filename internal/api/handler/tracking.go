package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/power2u/traineasy-web/internal/api/respond"
	"github.com/power2u/traineasy-web/internal/notifications"
	"github.com/power2u/traineasy-web/internal/tracking"
	"github.com/power2u/traineasy-web/internal/validate"
)

// dateParam returns ?date, or today's local date in ?tz (default zone when
// absent).
func (h *Handler) dateParam(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return notifications.LocalDateKey(h.now(), r.URL.Query().Get("tz"))
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, validate.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// --------------------------------------------------------------------------
// Water
// --------------------------------------------------------------------------

type waterRequest struct {
	Date     string `json:"date"`
	AmountML int    `json:"amount_ml"`
}

// GetWater returns one day's water total.
// @Summary Get water intake for a day
// @Tags water
// @Produce json
// @Param userID path string true "User UUID"
// @Param date query string false "YYYY-MM-DD, default today"
// @Param tz query string false "IANA zone used for today"
// @Success 200 {object} tracking.WaterDay
// @Router /api/v1/users/{userID}/water [get]
func (h *Handler) GetWater(w http.ResponseWriter, r *http.Request) {
	day, err := h.Tracking.WaterForDay(r.Context(), chi.URLParam(r, "userID"), h.dateParam(r))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, day)
}

// AddWater adds (or with a negative amount, removes) intake for a day.
// @Summary Add water intake
// @Tags water
// @Accept json
// @Produce json
// @Param userID path string true "User UUID"
// @Param body body waterRequest true "Intake"
// @Success 200 {object} tracking.WaterDay
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/users/{userID}/water [post]
func (h *Handler) AddWater(w http.ResponseWriter, r *http.Request) {
	var req waterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = h.dateParam(r)
	}
	day, err := h.Tracking.AddWater(r.Context(), chi.URLParam(r, "userID"), req.Date, req.AmountML)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, day)
}

type waterGoalRequest struct {
	Date   string `json:"date"`
	GoalML int    `json:"goal_ml"`
}

// SetWaterGoal changes one day's goal.
func (h *Handler) SetWaterGoal(w http.ResponseWriter, r *http.Request) {
	var req waterGoalRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = h.dateParam(r)
	}
	day, err := h.Tracking.SetWaterGoal(r.Context(), chi.URLParam(r, "userID"), req.Date, req.GoalML)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, day)
}

// WaterHistory lists daily totals in a date range.
func (h *Handler) WaterHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, err := h.Tracking.WaterHistory(r.Context(), chi.URLParam(r, "userID"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, days)
}

// --------------------------------------------------------------------------
// Meals
// --------------------------------------------------------------------------

type mealRequest struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// GetMeals returns the completion of every meal slot on a day.
// @Summary Get meal completion for a day
// @Tags meals
// @Produce json
// @Param userID path string true "User UUID"
// @Param date query string false "YYYY-MM-DD, default today"
// @Success 200 {object} meal.Day
// @Router /api/v1/users/{userID}/meals [get]
func (h *Handler) GetMeals(w http.ResponseWriter, r *http.Request) {
	day, err := h.Tracking.MealsForDay(r.Context(), chi.URLParam(r, "userID"), h.dateParam(r))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, day)
}

// MarkMeal sets one slot completed or not.
// @Summary Mark a meal
// @Tags meals
// @Accept json
// @Produce json
// @Param userID path string true "User UUID"
// @Param meal path string true "Meal slot" Enums(breakfast, snack1, lunch, snack2, dinner)
// @Param body body mealRequest true "Completion"
// @Success 200 {object} meal.Day
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/users/{userID}/meals/{meal} [put]
func (h *Handler) MarkMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = h.dateParam(r)
	}
	day, err := h.Tracking.MarkMeal(r.Context(), chi.URLParam(r, "userID"), req.Date, chi.URLParam(r, "meal"), req.Completed)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, day)
}

// --------------------------------------------------------------------------
// Measurements and weight
// --------------------------------------------------------------------------

// SaveMeasurement upserts a day's body measurements.
// @Summary Save measurements
// @Tags measurements
// @Accept json
// @Produce json
// @Param userID path string true "User UUID"
// @Param body body tracking.Measurement true "Measurements; user_id is taken from the path"
// @Success 200 {object} tracking.Measurement
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/users/{userID}/measurements [post]
func (h *Handler) SaveMeasurement(w http.ResponseWriter, r *http.Request) {
	var m tracking.Measurement
	if !h.decode(w, r, &m) {
		return
	}
	m.UserID = chi.URLParam(r, "userID")
	if m.Date == "" {
		m.Date = h.dateParam(r)
	}
	out, err := h.Tracking.SaveMeasurement(r.Context(), m)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}

// MeasurementHistory lists measurements in a date range, newest first.
func (h *Handler) MeasurementHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	q := r.URL.Query()
	out, err := h.Tracking.MeasurementHistory(r.Context(), chi.URLParam(r, "userID"), q.Get("from"), q.Get("to"), limit)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}

type weightRequest struct {
	WeightKg float64   `json:"weight_kg"`
	LoggedAt time.Time `json:"logged_at"`
}

// LogWeight records a weigh-in.
// @Summary Log weight
// @Tags weight
// @Accept json
// @Produce json
// @Param userID path string true "User UUID"
// @Param body body weightRequest true "Weigh-in; logged_at defaults to now"
// @Success 201 {object} tracking.WeightEntry
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/users/{userID}/weight [post]
func (h *Handler) LogWeight(w http.ResponseWriter, r *http.Request) {
	var req weightRequest
	if !h.decode(w, r, &req) {
		return
	}
	e, err := h.Tracking.LogWeight(r.Context(), chi.URLParam(r, "userID"), req.WeightKg, req.LoggedAt)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, e)
}

// LatestWeight returns the newest weigh-in.
func (h *Handler) LatestWeight(w http.ResponseWriter, r *http.Request) {
	e, err := h.Tracking.LatestWeight(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, e)
}

// WeightHistory lists weigh-ins of the last ?days (default 90).
func (h *Handler) WeightHistory(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	out, err := h.Tracking.WeightHistory(r.Context(), chi.URLParam(r, "userID"), days, limit)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}
