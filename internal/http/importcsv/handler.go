package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/encoding"
	"github.com/MrJamesThe3rd/finboard/internal/http/api"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

// Routes expects to be mounted below a path carrying the account {id}.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
}

type importResponse struct {
	Imported     int                       `json:"imported"`
	Format       importer.Format           `json:"format"`
	Charset      encoding.Charset          `json:"charset"`
	Transactions []api.TransactionResponse `json:"transactions"`
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	accountID, err := api.PathID(r, "id")
	if err != nil {
		api.Error(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		api.Error(w, r, validation.Field("file", "failed to parse form: "+err.Error()))
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatCSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Error(w, r, validation.Field("file", "is required"))
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), api.UserID(r.Context()), accountID, format, file)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, importResponse{
		Imported:     len(res.Transactions),
		Format:       res.Format,
		Charset:      res.Charset,
		Transactions: api.Transactions(res.Transactions),
	})
}
