package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/http/api"
	"github.com/MrJamesThe3rd/finboard/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
}

type categoryResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Percent  float64 `json:"percent"`
	Count    int     `json:"count"`
}

type monthResponse struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type summaryResponse struct {
	Income      float64            `json:"income"`
	Expenses    float64            `json:"expenses"`
	Net         float64            `json:"net"`
	SavingsRate float64            `json:"savings_rate"`
	Count       int                `json:"count"`
	Categories  []categoryResponse `json:"categories"`
	Months      []monthResponse    `json:"months"`
}

func toResponse(s report.Summary) summaryResponse {
	resp := summaryResponse{
		Income:      s.Income.InexactFloat64(),
		Expenses:    s.Expenses.InexactFloat64(),
		Net:         s.Net.InexactFloat64(),
		SavingsRate: s.SavingsRate.InexactFloat64(),
		Count:       s.Count,
		Categories:  make([]categoryResponse, 0, len(s.Categories)),
		Months:      make([]monthResponse, 0, len(s.Months)),
	}

	for _, c := range s.Categories {
		resp.Categories = append(resp.Categories, categoryResponse{
			Category: c.Category,
			Amount:   c.Amount.InexactFloat64(),
			Percent:  c.Percent.InexactFloat64(),
			Count:    c.Count,
		})
	}

	for _, m := range s.Months {
		resp.Months = append(resp.Months, monthResponse{
			Month:    m.Month,
			Income:   m.Income.InexactFloat64(),
			Expenses: m.Expenses.InexactFloat64(),
		})
	}

	return resp
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := api.ListFilter(r)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	s, err := h.svc.Summary(r.Context(), api.UserID(r.Context()), filter)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(s))
}
