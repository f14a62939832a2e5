package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/http/api"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
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
	r.Get("/{id}", h.get)
}

type createTransactionRequest struct {
	AccountID   int64           `json:"account_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    *string         `json:"category,omitempty"`
}

// parseDate accepts a full RFC 3339 timestamp or a plain YYYY-MM-DD date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, validation.Field("date", "must be an RFC 3339 timestamp or YYYY-MM-DD")
	}

	return t, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, r, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), api.UserID(r.Context()), transaction.CreateParams{
		AccountID:   req.AccountID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Category:    req.Category,
	})
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, api.Transaction(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := api.ListFilter(r)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	txs, err := h.svc.ListForUser(r.Context(), api.UserID(r.Context()), filter)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, api.Transactions(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), api.UserID(r.Context()), id)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, api.Transaction(tx))
}
