package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/goal"
	"github.com/arjunks/kharcha/internal/http/respond"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/add_amount", h.addAmount)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	params := goal.CreateParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount.Paise(),
	}

	if req.Deadline != "" {
		deadline, err := time.Parse(time.DateOnly, req.Deadline)
		if err != nil {
			respond.FailFields(w, http.StatusBadRequest, "validation failed",
				map[string][]string{"deadline": {"must be a YYYY-MM-DD date"}})

			return
		}

		params.Deadline = &deadline
	}

	g, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	respond.OK(w, http.StatusCreated, "goal created", api.GoalToWire(g, time.Now().UTC()))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.List(r.Context())
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.GoalsToWire(goals, time.Now().UTC()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "goal not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.OK(w, http.StatusOK, "", api.GoalToWire(g, time.Now().UTC()))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req api.UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	params := goal.UpdateParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount.Paise(),
		Status:       goal.Status(req.Status),
	}

	if req.Deadline != "" {
		deadline, err := time.Parse(time.DateOnly, req.Deadline)
		if err != nil {
			respond.FailFields(w, http.StatusBadRequest, "validation failed",
				map[string][]string{"deadline": {"must be a YYYY-MM-DD date"}})

			return
		}

		params.Deadline = &deadline
	}

	g, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "goal not found")
			return
		}

		respond.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "goal updated", api.GoalToWire(g, time.Now().UTC()))
}

func (h *Handler) addAmount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req api.AddAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.svc.AddAmount(r.Context(), id, req.Amount.Paise())
	if err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "goal not found")
			return
		}

		respond.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "amount added", api.GoalToWire(g, time.Now().UTC()))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "goal not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "goal deleted", nil)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context())
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.GoalSummaryToWire(sum))
}
