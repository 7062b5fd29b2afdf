package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/quotator/internal/api/middleware"
	"github.com/daap14/quotator/internal/api/response"
	"github.com/daap14/quotator/internal/quote"
)

// itemRequest is the request body for creating or updating a quote item.
// Every field is optional; a null or absent field is left unset.
type itemRequest struct {
	FlavorID     *string  `json:"flavor_id" validate:"omitnil,max=200"`
	FlavorName   *string  `json:"flavor_name" validate:"omitnil,max=200"`
	VCPUs        *int     `json:"vcpus" validate:"omitnil,gte=0"`
	RAMGB        *float64 `json:"ram_gb" validate:"omitnil,gte=0"`
	FlavorPrice  *float64 `json:"flavor_price" validate:"omitnil,gte=0"`
	DiskTypeID   *string  `json:"disk_type_id" validate:"omitnil,max=200"`
	DiskTypeName *string  `json:"disk_type_name" validate:"omitnil,max=200"`
	DiskSizeGB   *int     `json:"disk_size_gb" validate:"omitnil,gte=0"`
	DiskPrice    *float64 `json:"disk_price" validate:"omitnil,gte=0"`
	Hostname     *string  `json:"hostname" validate:"omitnil,max=255"`
	CodeNumber   *string  `json:"code_number" validate:"omitnil,max=100"`
	Description  *string  `json:"description" validate:"omitnil,max=2000"`
}

func (r itemRequest) fields() quote.ItemFields {
	return quote.ItemFields{
		FlavorID:     r.FlavorID,
		FlavorName:   r.FlavorName,
		VCPUs:        r.VCPUs,
		RAMGB:        r.RAMGB,
		FlavorPrice:  r.FlavorPrice,
		DiskTypeID:   r.DiskTypeID,
		DiskTypeName: r.DiskTypeName,
		DiskSizeGB:   r.DiskSizeGB,
		DiskPrice:    r.DiskPrice,
		Hostname:     r.Hostname,
		CodeNumber:   r.CodeNumber,
		Description:  r.Description,
	}
}

type itemResponse struct {
	ID           string   `json:"id"`
	QuoteID      string   `json:"quote_id"`
	FlavorID     *string  `json:"flavor_id"`
	FlavorName   *string  `json:"flavor_name"`
	VCPUs        *int     `json:"vcpus"`
	RAMGB        *float64 `json:"ram_gb"`
	FlavorPrice  *float64 `json:"flavor_price"`
	DiskTypeID   *string  `json:"disk_type_id"`
	DiskTypeName *string  `json:"disk_type_name"`
	DiskSizeGB   *int     `json:"disk_size_gb"`
	DiskPrice    *float64 `json:"disk_price"`
	Hostname     *string  `json:"hostname"`
	CodeNumber   *string  `json:"code_number"`
	Description  *string  `json:"description"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toItemResponse(it *quote.Item) itemResponse {
	return itemResponse{
		ID:           it.ID.String(),
		QuoteID:      it.QuoteID.String(),
		FlavorID:     it.FlavorID,
		FlavorName:   it.FlavorName,
		VCPUs:        it.VCPUs,
		RAMGB:        it.RAMGB,
		FlavorPrice:  it.FlavorPrice,
		DiskTypeID:   it.DiskTypeID,
		DiskTypeName: it.DiskTypeName,
		DiskSizeGB:   it.DiskSizeGB,
		DiskPrice:    it.DiskPrice,
		Hostname:     it.Hostname,
		CodeNumber:   it.CodeNumber,
		Description:  it.Description,
		CreatedAt:    it.CreatedAt.String(),
		UpdatedAt:    it.UpdatedAt.String(),
	}
}

// ItemHandler handles the line items of a quote.
type ItemHandler struct {
	repo quote.Repository
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(repo quote.Repository) *ItemHandler {
	return &ItemHandler{repo: repo}
}

// List handles GET /quotes/{id}/items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	quoteID, ok := pathUUID(w, r, "id", requestID)
	if !ok {
		return
	}

	items, err := h.repo.ListItems(r.Context(), quoteID)
	if err != nil {
		slog.Error("failed to list items", "error", err, "quote_id", quoteID, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch items", requestID)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	response.Success(w, http.StatusOK, out, requestID)
}

// Create handles POST /quotes/{id}/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	quoteID, ok := pathUUID(w, r, "id", requestID)
	if !ok {
		return
	}

	var req itemRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}
	if !validateBody(w, req, requestID) {
		return
	}

	item, err := h.repo.CreateItem(r.Context(), quoteID, req.fields())
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			response.Err(w, http.StatusNotFound, response.CodeNotFound, "Quote not found", requestID)
			return
		}
		slog.Error("failed to create item", "error", err, "quote_id", quoteID, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to create item", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toItemResponse(item), requestID)
}

// Update handles PUT /quotes/{id}/items/{itemId}. Only the supplied
// fields are overwritten.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if _, ok := pathUUID(w, r, "id", requestID); !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId", requestID)
	if !ok {
		return
	}

	var req itemRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}
	fields := req.fields()
	if fields.IsEmpty() {
		response.Err(w, http.StatusBadRequest, response.CodeValidationError, "No update fields provided", requestID)
		return
	}
	if !validateBody(w, req, requestID) {
		return
	}

	if err := h.repo.UpdateItem(r.Context(), itemID, fields); err != nil {
		slog.Error("failed to update item", "error", err, "item_id", itemID, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to update item", requestID)
		return
	}

	response.OK(w, requestID)
}

// Delete handles DELETE /quotes/{id}/items/{itemId}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if _, ok := pathUUID(w, r, "id", requestID); !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId", requestID)
	if !ok {
		return
	}

	if err := h.repo.DeleteItem(r.Context(), itemID); err != nil {
		slog.Error("failed to delete item", "error", err, "item_id", itemID, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to delete item", requestID)
		return
	}

	response.OK(w, requestID)
}
