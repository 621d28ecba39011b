package handlers

import (
	"context"
	"log/slog"
	"net/http"

	pkghttp "github.com/BradenHooton/emporium/pkg/http"
)

// HealthChecker pings the active store
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	store  HealthChecker
	logger *slog.Logger
}

func NewHealthHandler(store HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		h.logger.Error("health check failed", slog.Any("error", err))
		pkghttp.WriteServiceUnavailable(w, "Database unavailable")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
