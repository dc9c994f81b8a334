package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/piyushmakhija5/ai-playground/internal/errors"
	custommw "github.com/piyushmakhija5/ai-playground/internal/middleware"
	"github.com/piyushmakhija5/ai-playground/internal/report"
	"github.com/piyushmakhija5/ai-playground/internal/services"
	api "github.com/piyushmakhija5/ai-playground/pkg/contracts/api/v1"
)

const (
	defaultMaxUpload    = 32 << 20
	multipartMemory     = 8 << 20
	contentTypeMarkdown = "text/markdown; charset=utf-8"
)

// SummaryHandler serves dataset uploads.
type SummaryHandler struct {
	service      SummaryServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validator    *custommw.Validator
	maxUpload    int64
}

// NewSummaryHandler creates a handler. maxUpload <= 0 selects 32 MiB.
func NewSummaryHandler(service SummaryServiceInterface, maxUpload int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SummaryHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &SummaryHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "summary_handler")),
		errorHandler: errorHandler,
		validator:    custommw.NewValidator(),
		maxUpload:    maxUpload,
	}
}

// Routes returns the summary routes
func (h *SummaryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.With(custommw.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/", h.CreateSummary)
	return r
}

// CreateSummary handles POST /api/v1/summaries
func (h *SummaryHandler) CreateSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, h.uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := api.SummaryUploadRequest{
		CompanyName: strings.TrimSpace(r.FormValue("company_name")),
		Format:      strings.ToLower(strings.TrimSpace(r.FormValue("format"))),
	}
	if err := h.validator.ValidateStruct(form); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "summarizing upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("format", form.FormatOrDefault()))

	rep, err := h.service.Summarize(r.Context(), services.SummaryRequest{
		CompanyName: form.CompanyName,
		Filename:    header.Filename,
		Body:        file,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.respond(w, r, form.FormatOrDefault(), rep)
}

func (h *SummaryHandler) respond(w http.ResponseWriter, r *http.Request, format string, rep *report.Report) {
	switch format {
	case api.FormatMarkdown:
		w.Header().Set("Content-Type", contentTypeMarkdown)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.Markdown(*rep)))
	case api.FormatHTML:
		page, err := report.HTML(*rep)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		render.HTML(w, r, page)
	case api.FormatPrompt:
		payload, err := report.PromptJSON(rep.Summary)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		render.PlainText(w, r, payload)
	default:
		render.JSON(w, r, api.NewSuccessResponse(rep))
	}
}

func (h *SummaryHandler) uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			apierrors.ErrPayloadTooLarge.Message, map[string]interface{}{"max_bytes": h.maxUpload})
	}
	return apierrors.InvalidRequestWithError(err)
}
