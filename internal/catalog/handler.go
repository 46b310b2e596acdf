package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pagekeep/pagekeep/internal/domain"
	"github.com/pagekeep/pagekeep/internal/pkg/ctxlog"
	"github.com/pagekeep/pagekeep/internal/pkg/httputil"
)

// multipartOverhead is extra body allowance for multipart framing on top of
// the file size cap.
const multipartOverhead = 32 << 10

// Handler handles HTTP requests for the catalog module.
type Handler struct {
	service     *Service
	maxFileSize int64
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service, maxFileSize int64) *Handler {
	return &Handler{
		service:     service,
		maxFileSize: maxFileSize,
	}
}

// RegisterReaderRoutes registers routes available to any authenticated role.
func (h *Handler) RegisterReaderRoutes(r chi.Router) {
	r.Get("/books", h.ListBooks)
	r.Get("/books/{id}", h.GetBook)
}

// RegisterEditorRoutes registers mutation routes (root-admin and admin only).
func (h *Handler) RegisterEditorRoutes(r chi.Router) {
	r.Post("/books", h.CreateBook)
	r.Put("/books/{id}", h.UpdateBook)
	r.Delete("/books/{id}", h.DeleteBook)
}

// RegisterCoverRoutes registers the cover upload route. The route carries no
// auth middleware, matching the published route table.
func (h *Handler) RegisterCoverRoutes(r chi.Router) {
	r.Patch("/books/cover-image/{id}", h.UpdateBookCover)
}

// CreateBook handles POST /books.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req BookPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if errs := ValidateBook(req); len(errs) > 0 {
		httputil.Error(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	publishedDate, err := ParseDate(req.PublishedDate)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, `"publishedDate" must be a valid date`)
		return
	}

	book := &domain.Book{
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: publishedDate,
		ISBN:          req.ISBN,
	}

	if err := h.service.Create(r.Context(), book); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, book)
}

// ListBooks handles GET /books with page and limit query parameters.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	books, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, books)
}

// GetBook handles GET /books/{id}.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, book)
}

// UpdateBook handles PUT /books/{id}. Schema violations collapse to a
// single generic message on this path.
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req BookPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if errs := ValidateBook(req); len(errs) > 0 {
		httputil.Error(w, http.StatusBadRequest, "Validation failed")
		return
	}

	publishedDate, err := ParseDate(req.PublishedDate)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Validation failed")
		return
	}

	book := &domain.Book{
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: publishedDate,
		ISBN:          req.ISBN,
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), book)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, updated)
}

// DeleteBook handles DELETE /books/{id}.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.SuccessMessage(w, http.StatusOK, "Book deleted successfully", book)
}

// UpdateBookCover handles PATCH /books/cover-image/{id} with a multipart
// file in the coverImage field. The request body is capped at the configured
// file size before the form is parsed.
func (h *Handler) UpdateBookCover(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.Error(w, http.StatusBadRequest, "File too large")
			return
		}
		httputil.Error(w, http.StatusBadRequest, ErrNoFile.Error())
		return
	}

	file, header, err := r.FormFile("coverImage")
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, ErrNoFile.Error())
		return
	}
	defer file.Close()

	book, err := h.service.UpdateCover(r.Context(), chi.URLParam(r, "id"), CoverUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, book)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBookNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoFile):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnsupportedFileType):
		// Non-image uploads respond 500, not 400; existing clients match
		// on this status and error string.
		httputil.Error(w, http.StatusInternalServerError, err.Error())
	default:
		ctxlog.FromContext(r.Context()).Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "Server error")
	}
}
