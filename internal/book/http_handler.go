package book

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"catalogapi/internal/httpx"

	"go.uber.org/zap"
)

const defaultTrackTimeout = 2 * time.Second

type HTTPHandler struct {
	service      *Service
	logger       *zap.Logger
	trackTimeout time.Duration
	wg           sync.WaitGroup
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{service: service, logger: logger, trackTimeout: defaultTrackTimeout}
}

// Register mounts the catalog routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/books", h.List)
	mux.HandleFunc("GET /v1/books/recently-viewed", h.RecentlyViewed)
	mux.HandleFunc("GET /v1/books/genre/{genre}", h.ListByGenre)
	mux.HandleFunc("GET /v1/books/author/{author}", h.ListByAuthor)
	mux.HandleFunc("GET /v1/books/{id}", h.GetByID)
}

// Wait blocks until every pending view tracking call has finished.
func (h *HTTPHandler) Wait() {
	h.wg.Wait()
}

// List handles GET /v1/books
// @Summary List all books
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=[]Book}
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// GetByID handles GET /v1/books/{id}
// @Summary Get a book by id
// @Description Records the view for the caller when X-Client-ID is sent.
// @Tags books
// @Produce json
// @Param id path string true "Book id"
// @Param X-Client-ID header string false "Opaque client identifier"
// @Success 200 {object} httpx.SuccessResponse{data=Book}
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if clientID := httpx.ClientIDFrom(r); clientID != "" {
		h.trackView(r.Context(), clientID, b.ID)
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// ListByGenre handles GET /v1/books/genre/{genre}
// @Summary List books by genre
// @Description Matching ignores case and accents.
// @Tags books
// @Produce json
// @Param genre path string true "Genre"
// @Success 200 {object} httpx.SuccessResponse{data=[]Book}
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books/genre/{genre} [get]
func (h *HTTPHandler) ListByGenre(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindByGenre(r.Context(), r.PathValue("genre"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// ListByAuthor handles GET /v1/books/author/{author}
// @Summary List books by author
// @Tags books
// @Produce json
// @Param author path string true "Author"
// @Success 200 {object} httpx.SuccessResponse{data=[]Book}
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books/author/{author} [get]
func (h *HTTPHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindByAuthor(r.Context(), r.PathValue("author"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// RecentlyViewed handles GET /v1/books/recently-viewed
// @Summary Books recently viewed by the caller
// @Tags books
// @Produce json
// @Param X-Client-ID header string false "Opaque client identifier"
// @Success 200 {object} httpx.SuccessResponse{data=[]Book}
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books/recently-viewed [get]
func (h *HTTPHandler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindRecentlyViewed(r.Context(), httpx.ClientIDFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// trackView records the view in the background. The response never waits
// for it and its errors are only logged.
func (h *HTTPHandler) trackView(parent context.Context, clientID, bookID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), h.trackTimeout)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic while tracking view", zap.Any("panic", rec))
			}
		}()

		if err := h.service.TrackView(ctx, clientID, bookID); err != nil {
			h.logger.Warn("failed to track view",
				zap.String("client_id", clientID),
				zap.String("book_id", bookID),
				zap.Error(err))
		}
	}()
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		httpx.JSONErrorAt(w, r, http.StatusNotFound, "NOT_FOUND", nf.Error(), nf.Timestamp, nil)
		return
	}

	h.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err))
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", httpx.GenericErrorMessage, nil)
}
