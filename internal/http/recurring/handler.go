package recurring

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/http/respond"
	"github.com/arjunks/kharcha/internal/recurring"
	"github.com/arjunks/kharcha/internal/transaction"
)

const defaultUpcomingDays = 7

type Handler struct {
	svc *recurring.Service
}

func NewHandler(svc *recurring.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/process_due", h.processDue)
	r.Get("/upcoming", h.upcoming)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/toggle", h.toggle)
	r.Delete("/{id}", h.delete)
}

// paramsFromWire maps a create/update payload onto service params; a
// non-nil field map reports date fields that failed to parse.
func paramsFromWire(req api.CreateRecurringRequest) (recurring.CreateParams, map[string][]string) {
	params := recurring.CreateParams{
		Type:        transaction.Type(req.Type),
		Amount:      req.Amount.Paise(),
		Description: req.Description,
		Category:    req.Category.Name,
		Notes:       req.Notes,
		Schedule: recurring.Schedule{
			Frequency:   recurring.Frequency(req.Frequency),
			DayOfWeek:   time.Weekday(req.DayOfWeek),
			DayOfMonth:  req.DayOfMonth,
			MonthOfYear: time.Month(req.MonthOfYear),
		},
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return params, map[string][]string{"start_date": {"must be a YYYY-MM-DD date"}}
	}

	params.StartDate = start

	if req.EndDate != "" {
		end, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return params, map[string][]string{"end_date": {"must be a YYYY-MM-DD date"}}
		}

		params.EndDate = &end
	}

	return params, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateRecurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	params, fields := paramsFromWire(req)
	if fields != nil {
		respond.FailFields(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	rec, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	respond.OK(w, http.StatusCreated, "recurring transaction created", api.RecurringToWire(rec))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req api.UpdateRecurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	params, fields := paramsFromWire(req)
	if fields != nil {
		respond.FailFields(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	rec, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "recurring transaction not found")
			return
		}

		respond.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "recurring transaction updated", api.RecurringToWire(rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"

	recs, err := h.svc.List(r.Context(), onlyActive)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.RecurringsToWire(recs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "recurring transaction not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.OK(w, http.StatusOK, "", api.RecurringToWire(rec))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	active, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "recurring transaction not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "", api.ToggleResponse{ID: id.String(), IsActive: active})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "recurring transaction not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "recurring transaction deleted", nil)
}

func (h *Handler) processDue(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ProcessDue(r.Context(), time.Now().UTC())
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "due schedules processed", api.ProcessDueResponse{
		Created:   api.TransactionsToWire(result.Created),
		Processed: result.Processed,
		Exhausted: result.Exhausted,
	})
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	days := defaultUpcomingDays
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			days = n
		}
	}

	items, err := h.svc.Upcoming(r.Context(), time.Now().UTC(), days)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.UpcomingToWire(items))
}
