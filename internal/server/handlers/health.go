package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/stargazer/internal/server/response"
)

// HandleHealth handles GET /health.
// @Summary Health check
// @Description Health check endpoint (liveness probe)
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "stargazer",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /ready.
// @Summary Readiness check
// @Description Readiness check including star cache statistics
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 500 {object} response.Response{error=response.Error}
// @Router /ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if _, err := h.app.Stars(); err != nil {
		response.InternalError(w, err)
		return
	}

	stats := h.app.CacheStats()
	response.OK(w, map[string]any{
		"status":         "ready",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"star_cache": map[string]any{
			"entries":     stats.Entries,
			"capacity":    stats.Capacity,
			"hits":        stats.Hits,
			"misses":      stats.Misses,
			"expirations": stats.Expirations,
			"evictions":   stats.Evictions,
		},
	})
}
