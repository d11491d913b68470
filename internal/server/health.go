package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
)

type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports the state of the database and of the task API.
// A nil DBPinger means this process does not serve the API itself.
type HealthChecker struct {
	db         DBPinger
	apiURL     string
	httpClient *http.Client
	log        *slog.Logger
}

func NewHealthChecker(db DBPinger, apiURL string, log *slog.Logger) *HealthChecker {
	clientTO := 5
	return &HealthChecker{
		db:         db,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(clientTO) * time.Second},
		log:        log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if h.db == nil {
		status["database"] = "disabled"
	} else if err := h.db.Ping(req.Context()); err != nil {
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: DB ping", sl.Err(err))
	} else {
		status["database"] = "ok"
	}

	status["api"] = h.probeAPI(req.Context())
	if status["api"] != "ok" {
		overallStatus = http.StatusServiceUnavailable
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}

func (h *HealthChecker) probeAPI(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.apiURL+"/tasks", nil)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: invalid API url", "url", h.apiURL, sl.Err(err))
		return "unreachable"
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: API unreachable", "url", h.apiURL, sl.Err(err))
		return "unreachable"
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			h.log.WarnContext(ctx, "Failed to close response body", sl.Err(err))
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		h.log.WarnContext(ctx, "Health check failed: API returned error status",
			"url", h.apiURL, "status_code", resp.StatusCode)
		return "degraded"
	}

	return "ok"
}
