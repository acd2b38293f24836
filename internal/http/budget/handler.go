package budget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/budget"
	"github.com/arjunks/kharcha/internal/http/respond"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Post("/refresh", h.refresh)
	r.Get("/alerts", h.alerts)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{budgetID}/alerts/{alertID}/read", h.markAlertRead)
	r.Patch("/{budgetID}/alerts/{alertID}/acknowledge", h.acknowledgeAlert)
}

// paramsFromWire maps a create/update payload onto service params; a
// non-nil field map reports date fields that failed to parse.
func paramsFromWire(req api.CreateBudgetRequest) (budget.CreateParams, map[string][]string) {
	params := budget.CreateParams{
		Category: req.Category.Name,
		Amount:   req.Amount.Paise(),
		Period:   budget.Period(req.Period),
	}

	if req.StartDate != "" {
		start, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return params, map[string][]string{"start_date": {"must be a YYYY-MM-DD date"}}
		}

		params.StartDate = &start
	}

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
	var req api.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	params, fields := paramsFromWire(req)
	if fields != nil {
		respond.FailFields(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	b, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	respond.OK(w, http.StatusCreated, "budget created", api.BudgetToWire(b))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req api.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	params, fields := paramsFromWire(req)
	if fields != nil {
		respond.FailFields(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	b, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "budget not found")
			return
		}

		respond.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "budget updated", api.BudgetToWire(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"

	budgets, err := h.svc.List(r.Context(), onlyActive)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.BudgetsToWire(budgets))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "budget not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.OK(w, http.StatusOK, "", api.BudgetToWire(b))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "budget not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "budget deleted", nil)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context())
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.BudgetSummaryToWire(sum))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.Refresh(r.Context(), time.Now().UTC())
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "budgets refreshed", api.BudgetsToWire(budgets))
}

func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	alerts, err := h.svc.Alerts(r.Context(), unreadOnly)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.AlertsToWire(alerts))
}

func (h *Handler) markAlertRead(w http.ResponseWriter, r *http.Request) {
	h.alertAction(w, r, h.svc.MarkAlertRead, "alert marked read")
}

func (h *Handler) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	h.alertAction(w, r, h.svc.AcknowledgeAlert, "alert acknowledged")
}

func (h *Handler) alertAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, budgetID, alertID uuid.UUID) error, message string,
) {
	budgetID, err := uuid.Parse(chi.URLParam(r, "budgetID"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	alertID, err := uuid.Parse(chi.URLParam(r, "alertID"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	if err := action(r.Context(), budgetID, alertID); err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "alert not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, message, nil)
}
