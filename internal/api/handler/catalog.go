package handler

import (
	"log/slog"
	"net/http"

	"github.com/daap14/quotator/internal/api/middleware"
	"github.com/daap14/quotator/internal/api/response"
	"github.com/daap14/quotator/internal/api/validation"
	"github.com/daap14/quotator/internal/catalog"
)

type flavorResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	VCPUs        int     `json:"vcpus"`
	RAMGB        float64 `json:"ram_gb"`
	PriceHourly  float64 `json:"price_hourly"`
	PriceMonthly float64 `json:"price_monthly"`
	PriceYearly1 float64 `json:"price_yearly_1"`
	PriceYearly3 float64 `json:"price_yearly_3"`
	Region       string  `json:"region"`
	CreatedAt    string  `json:"created_at"`
}

type diskTypeResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PricePerGB float64 `json:"price_per_gb"`
	Region     string  `json:"region"`
	CreatedAt  string  `json:"created_at"`
}

type pricingResponse struct {
	Flavors   []flavorResponse   `json:"flavors"`
	DiskTypes []diskTypeResponse `json:"disk_types"`
}

func toFlavorResponses(flavors []catalog.Flavor) []flavorResponse {
	out := make([]flavorResponse, 0, len(flavors))
	for _, f := range flavors {
		out = append(out, flavorResponse{
			ID:           f.ID,
			Name:         f.Name,
			VCPUs:        f.VCPUs,
			RAMGB:        f.RAMGB,
			PriceHourly:  f.PriceHourly,
			PriceMonthly: f.PriceMonthly,
			PriceYearly1: f.PriceYearly1,
			PriceYearly3: f.PriceYearly3,
			Region:       f.Region,
			CreatedAt:    f.CreatedAt.String(),
		})
	}
	return out
}

func toDiskTypeResponses(disks []catalog.DiskType) []diskTypeResponse {
	out := make([]diskTypeResponse, 0, len(disks))
	for _, d := range disks {
		out = append(out, diskTypeResponse{
			ID:         d.ID,
			Name:       d.Name,
			PricePerGB: d.PricePerGB,
			Region:     d.Region,
			CreatedAt:  d.CreatedAt.String(),
		})
	}
	return out
}

// CatalogHandler serves the read-only pricing catalog.
type CatalogHandler struct {
	repo catalog.Repository
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(repo catalog.Repository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// ListFlavors handles GET /flavors.
func (h *CatalogHandler) ListFlavors(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	flavors, err := h.repo.ListFlavors(r.Context())
	if err != nil {
		slog.Error("failed to list flavors", "error", err, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch flavors", requestID)
		return
	}

	response.Success(w, http.StatusOK, toFlavorResponses(flavors), requestID)
}

// BestMatch handles GET /flavors/match?vcpus=N&ram_gb=F.
func (h *CatalogHandler) BestMatch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	vcpus, err := validation.QueryInt(query, "vcpus", nil, "gte=0")
	if err != nil {
		writeParamError(w, err, requestID)
		return
	}
	ramGB, err := validation.QueryFloat(query, "ram_gb", nil, "gte=0")
	if err != nil {
		writeParamError(w, err, requestID)
		return
	}

	flavors, err := h.repo.FindBestMatch(r.Context(), vcpus, ramGB)
	if err != nil {
		slog.Error("failed to find best match", "error", err, "vcpus", vcpus, "ram_gb", ramGB, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to find matching instances", requestID)
		return
	}

	response.Success(w, http.StatusOK, toFlavorResponses(flavors), requestID)
}

// ListDiskTypes handles GET /disks.
func (h *CatalogHandler) ListDiskTypes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	disks, err := h.repo.ListDiskTypes(r.Context())
	if err != nil {
		slog.Error("failed to list disk types", "error", err, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch disk types", requestID)
		return
	}

	response.Success(w, http.StatusOK, toDiskTypeResponses(disks), requestID)
}

// Pricing handles GET /pricing.
func (h *CatalogHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	p, err := h.repo.Pricing(r.Context())
	if err != nil {
		slog.Error("failed to load pricing", "error", err, "request_id", requestID)
		response.Err(w, http.StatusInternalServerError, response.CodeInternalError, "Failed to fetch pricing data", requestID)
		return
	}

	response.Success(w, http.StatusOK, pricingResponse{
		Flavors:   toFlavorResponses(p.Flavors),
		DiskTypes: toDiskTypeResponses(p.DiskTypes),
	}, requestID)
}
