package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthHandler struct {
	store Store
}

func NewHealthHandler(store Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed")
		respondError(w, http.StatusInternalServerError, "Health check failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
