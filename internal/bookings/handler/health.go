package handler

import (
	"context"
	"net/http"
	"time"

	"parkslot/internal/bookings/repository"
	httputil "parkslot/pkg/http"
	"parkslot/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
}

type HealthHandler struct {
	store repository.Store
	log   *logger.Logger
}

func NewHealthHandler(store repository.Store, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store: store,
		log:   log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.store.ReadAll(ctx); err != nil {
		h.log.Error("Storage health check failed", "error", err)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unavailable",
			Storage: "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ready",
		Storage: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
