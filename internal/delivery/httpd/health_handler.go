package httpd

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "student-records",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.viewService.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Record source not ready")
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unavailable",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}
