package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/quotator/internal/api/middleware"
	"github.com/daap14/quotator/internal/api/response"
	"github.com/daap14/quotator/internal/crawler"
)

// CrawlTrigger starts a catalog refresh.
type CrawlTrigger interface {
	Trigger(ctx context.Context) error
}

// CrawlHandler handles POST /crawl. It always answers 200; a crawler that
// cannot be reached is reported as a warning in the payload.
type CrawlHandler struct {
	trigger CrawlTrigger
}

// NewCrawlHandler creates a new CrawlHandler.
func NewCrawlHandler(trigger CrawlTrigger) *CrawlHandler {
	return &CrawlHandler{trigger: trigger}
}

// ServeHTTP triggers the crawler and reports the outcome.
func (h *CrawlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	err := h.trigger.Trigger(r.Context())
	if err == nil {
		response.Success(w, http.StatusOK, response.Status{
			Status:  "ok",
			Message: "Crawl triggered successfully",
		}, requestID)
		return
	}

	var statusErr *crawler.StatusError
	if errors.As(err, &statusErr) {
		slog.Warn("crawler returned error", "status", statusErr.StatusCode, "request_id", requestID)
		response.Success(w, http.StatusOK, response.Status{
			Status:  "warning",
			Message: "Crawler may not be running",
		}, requestID)
		return
	}

	slog.Warn("failed to trigger crawler", "error", err, "request_id", requestID)
	response.Success(w, http.StatusOK, response.Status{
		Status:  "warning",
		Message: "Crawler service not available",
	}, requestID)
}
