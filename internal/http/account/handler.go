package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/http/api"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	svc *account.Service
	txs *transaction.Service
}

func NewHandler(svc *account.Service, txs *transaction.Service) *Handler {
	return &Handler{svc: svc, txs: txs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/transactions", h.transactions)
}

type accountResponse struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Name        string       `json:"name"`
	Type        account.Type `json:"type"`
	Institution string       `json:"institution"`
	Number      string       `json:"number"`
	Balance     float64      `json:"balance"`
	LastUpdated time.Time    `json:"last_updated"`
	CreatedAt   time.Time    `json:"created_at"`
}

func toResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Name:        a.Name,
		Type:        a.Type,
		Institution: a.Institution,
		Number:      a.Number,
		Balance:     a.Balance.InexactFloat64(),
		LastUpdated: a.LastUpdated,
		CreatedAt:   a.CreatedAt,
	}
}

func toResponseList(accs []*account.Account) []accountResponse {
	resp := make([]accountResponse, len(accs))
	for i, a := range accs {
		resp[i] = toResponse(a)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accs, err := h.svc.List(r.Context(), api.UserID(r.Context()))
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(accs))
}

type createAccountRequest struct {
	Name        string          `json:"name"`
	Type        account.Type    `json:"type"`
	Institution string          `json:"institution"`
	Number      string          `json:"number"`
	Balance     decimal.Decimal `json:"balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, r, err)
		return
	}

	acc, err := h.svc.Create(r.Context(), api.UserID(r.Context()), account.CreateParams{
		Name:        req.Name,
		Type:        req.Type,
		Institution: req.Institution,
		Number:      req.Number,
		Balance:     req.Balance,
	})
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(acc))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Error(w, r, err)
		return
	}

	acc, err := h.svc.Get(r.Context(), api.UserID(r.Context()), id)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(acc))
}

type updateAccountRequest struct {
	Name        *string          `json:"name,omitempty"`
	Institution *string          `json:"institution,omitempty"`
	Number      *string          `json:"number,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Error(w, r, err)
		return
	}

	var req updateAccountRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, r, err)
		return
	}

	acc, err := h.svc.Update(r.Context(), api.UserID(r.Context()), id, account.UpdateParams{
		Name:        req.Name,
		Institution: req.Institution,
		Number:      req.Number,
		Balance:     req.Balance,
	})
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(acc))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), api.UserID(r.Context()), id); err != nil {
		api.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Error(w, r, err)
		return
	}

	txs, err := h.txs.ListForAccount(r.Context(), api.UserID(r.Context()), id)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, api.Transactions(txs))
}
