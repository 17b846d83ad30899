package handlers

import (
	"context"
	"net/http"
)

// Pinger проверяет доступность базы
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status string `json:"status"`
}

// Health обрабатывает GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "database is unavailable", "error", err)
			h.sendJSON(w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}
	h.sendJSON(w, HealthResponse{Status: "ok"}, http.StatusOK)
}
