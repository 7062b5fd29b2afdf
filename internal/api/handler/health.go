package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/daap14/quotator/internal/api/middleware"
	"github.com/daap14/quotator/internal/api/response"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "quotator-api"

const pingTimeout = 2 * time.Second

// DBPinger checks that the store is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	pinger  DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pinger DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		pinger:  pinger,
		version: version,
	}
}

type storeStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status  string      `json:"status"`
	Service string      `json:"service"`
	Version string      `json:"version"`
	Store   storeStatus `json:"store"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	status := "ok"
	connected := true
	if err := h.pinger.Ping(ctx); err != nil {
		slog.Warn("store ping failed", "error", err, "request_id", requestID)
		status = "degraded"
		connected = false
	}

	data := healthData{
		Status:  status,
		Service: ServiceName,
		Version: h.version,
		Store:   storeStatus{Connected: connected},
	}

	response.Success(w, http.StatusOK, data, requestID)
}
