package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/1997daniela/employeeVaccineInventory/internal/dto"
	"github.com/1997daniela/employeeVaccineInventory/internal/utils"
)

// Pinger is anything readiness depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check related requests
type HealthHandler struct {
	store Pinger
	cache Pinger
}

// NewHealthHandler creates a new HealthHandler instance. cache may be nil.
func NewHealthHandler(store Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// HealthCheck handles basic health check (no backends)
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// LivenessCheck handles process liveness check
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck handles readiness check (store and, if configured, cache)
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	details := map[string]any{"db": "ok"}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		details["db"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		details["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			details["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	if status != http.StatusOK {
		utils.WriteJSONResponse(w, status, dto.HealthResponse{Status: "degraded", Details: details})
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ready", Details: details})
}
