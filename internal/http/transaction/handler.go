package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/http/respond"
	"github.com/arjunks/kharcha/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Post("/bulk_delete", h.bulkDelete)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		respond.FailFields(w, http.StatusBadRequest, "validation failed",
			map[string][]string{"date": {"must be a YYYY-MM-DD date"}})

		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Type:        transaction.Type(req.Type),
		Amount:      req.Amount.Paise(),
		Description: req.Description,
		Category:    req.Category.Name,
		Date:        date,
		Notes:       req.Notes,
	})
	if err != nil {
		if fields := respond.ValidationFields(err); fields != nil {
			respond.FailFields(w, http.StatusBadRequest, "validation failed", fields)
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusCreated, "transaction created", api.TransactionToWire(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := r.URL.Query().Get("category"); s != "" {
		filter.Category = new(s)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.TransactionsToWire(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "transaction not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.OK(w, http.StatusOK, "", api.TransactionToWire(tx))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req api.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	params := transaction.UpdateParams{
		Description: req.Description,
		Notes:       req.Notes,
	}

	if req.Type != nil {
		params.Type = new(transaction.Type(*req.Type))
	}

	if req.Amount != nil {
		params.Amount = new(req.Amount.Paise())
	}

	if req.Category != nil {
		params.Category = new(req.Category.Name)
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			respond.FailFields(w, http.StatusBadRequest, "validation failed",
				map[string][]string{"date": {"must be a YYYY-MM-DD date"}})

			return
		}

		params.Date = &date
	}

	tx, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "transaction not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "transaction updated", api.TransactionToWire(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "transaction not found")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "transaction deleted", nil)
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req api.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))

	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respond.FailFields(w, http.StatusBadRequest, "validation failed",
				map[string][]string{"ids": {"contains an invalid id"}})

			return
		}

		ids = append(ids, id)
	}

	n, err := h.svc.BulkDelete(r.Context(), ids)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "transactions deleted", api.BulkDeleteResponse{Deleted: n})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			start = t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			end = t
		}
	}

	sum, err := h.svc.Summarize(r.Context(), start, end)
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "", api.PeriodSummaryToWire(sum))
}
