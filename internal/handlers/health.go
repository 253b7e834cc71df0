package handlers

import (
	"context"
	"net/http"

	"github.com/clubhub/clubhub/httpx"
	"github.com/rs/zerolog/hlog"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Check(ctx context.Context) error
}

type HealthHandler struct {
	probe Pinger
}

func NewHealthHandler(probe Pinger) *HealthHandler {
	return &HealthHandler{probe: probe}
}

type status struct {
	Status string `json:"status"`
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, status{Status: "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.probe.Check(r.Context()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("readiness check failed")
		httpx.JSON(w, http.StatusServiceUnavailable, status{Status: "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, status{Status: "ok"})
}
