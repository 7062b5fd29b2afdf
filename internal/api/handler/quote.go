package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daap14/quotator/internal/api/middleware"
	"github.com/daap14/quotator/internal/api/response"
	"github.com/daap14/quotator/internal/api/validation"
	"github.com/daap14/quotator/internal/quote"
)

// createQuoteRequest is the request body for POST /quotes.
type createQuoteRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// updateQuoteRequest is the request body for PUT /quotes/{id}.
type updateQuoteRequest struct {
	Name *string `json:"name" validate:"omitnil,min=1,max=200"`
}

type quoteResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toQuoteResponse(q *quote.Quote) quoteResponse {
	return quoteResponse{
		ID:        q.ID.String(),
		Name:      q.Name,
		CreatedAt: q.CreatedAt.String(),
		UpdatedAt: q.UpdatedAt.String(),
	}
}

func toQuoteResponses(quotes []quote.Quote) []quoteResponse {
	out := make([]quoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, toQuoteResponse(&quotes[i]))
	}
	return out
}

// QuoteHandler handles quote CRUD endpoints.
type QuoteHandler struct {
	repo quote.Repository
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(repo quote.Repository) *QuoteHandler {
	return &QuoteHandler{repo: repo}
}

// List handles GET /quotes.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	quotes, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list quotes", "error", err, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch quotes", requestID)
		return
	}

	response.Success(w, http.StatusOK, toQuoteResponses(quotes), requestID)
}

// ListPaginated handles GET /quotes/paginated.
func (h *QuoteHandler) ListPaginated(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	defaultPage, defaultLimit := 1, quote.DefaultPageLimit
	limit, err := validation.QueryInt(query, "limit", &defaultLimit, "gte=1", fmt.Sprintf("lte=%d", quote.MaxPageLimit))
	if err != nil {
		writeParamError(w, err, requestID)
		return
	}
	page, err := validation.QueryInt(query, "page", &defaultPage, "gte=1", fmt.Sprintf("lte=%d", quote.MaxPage(limit)))
	if err != nil {
		writeParamError(w, err, requestID)
		return
	}
	sortBy, err := validation.QueryEnum(query, "sort_by", quote.SortFields, quote.SortByUpdatedAt)
	if err != nil {
		writeParamError(w, err, requestID)
		return
	}
	sortOrder, err := validation.QueryEnum(query, "sort_order", []string{quote.SortAsc, quote.SortDesc}, quote.SortDesc)
	if err != nil {
		writeParamError(w, err, requestID)
		return
	}

	result, err := h.repo.ListPage(r.Context(), quote.ListFilter{
		Search:    query.Get("search"),
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		slog.Error("failed to list quotes page", "error", err, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch quotes", requestID)
		return
	}

	response.SuccessList(w, http.StatusOK, toQuoteResponses(result.Quotes), response.Page{
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	}, requestID)
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createQuoteRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if !validateBody(w, req, requestID) {
		return
	}

	q, err := h.repo.Create(r.Context(), req.Name)
	if err != nil {
		slog.Error("failed to create quote", "error", err, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to create quote", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toQuoteResponse(q), requestID)
}

// GetByID handles GET /quotes/{id}.
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathUUID(w, r, "id", requestID)
	if !ok {
		return
	}

	q, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			response.Err(w, http.StatusNotFound, response.CodeNotFound, "Quote not found", requestID)
			return
		}
		slog.Error("failed to get quote", "error", err, "id", id, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch quote", requestID)
		return
	}

	response.Success(w, http.StatusOK, toQuoteResponse(q), requestID)
}

// Update handles PUT /quotes/{id}. Only the name can be changed.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathUUID(w, r, "id", requestID)
	if !ok {
		return
	}

	var req updateQuoteRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}
	if req.Name == nil {
		response.Err(w, http.StatusBadRequest, response.CodeValidationError, "No update fields provided", requestID)
		return
	}
	name := strings.TrimSpace(*req.Name)
	req.Name = &name
	if !validateBody(w, req, requestID) {
		return
	}

	if err := h.repo.Rename(r.Context(), id, name); err != nil {
		slog.Error("failed to update quote", "error", err, "id", id, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to update quote", requestID)
		return
	}

	response.OK(w, requestID)
}

// Delete handles DELETE /quotes/{id}.
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathUUID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete quote", "error", err, "id", id, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to delete quote", requestID)
		return
	}

	response.OK(w, requestID)
}
