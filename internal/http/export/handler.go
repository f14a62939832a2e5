package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/juju/clock"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/api"
)

type Handler struct {
	svc   *export.Service
	clock clock.Clock
}

func NewHandler(svc *export.Service, clk clock.Clock) *Handler {
	return &Handler{svc: svc, clock: clk}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.transactions)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	filter, err := api.ListFilter(r)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	// Buffer the CSV so a failure can still be reported as a JSON error.
	var buf bytes.Buffer

	if _, err := h.svc.Export(r.Context(), api.UserID(r.Context()), filter, &buf); err != nil {
		api.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s\"", export.Filename(h.clock.Now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
