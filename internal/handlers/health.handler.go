package handlers

import (
	"context"

	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/nimasrn/finance-ledger/pkg/logger"
)

type HealthService interface {
	Check(ctx context.Context) error
}
type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(r Routes, h *HealthHandler) {
	r.GET("/health", h.GetHealth)
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		svc: healthService,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.svc.Check(ctx); err != nil {
		logger.Warn("[health] store ping failed", "error", err)
		ctx.Response.Header.Set("Retry-After", "1")
		writeError(ctx, xhttp.StatusServiceUnavailable, "store unreachable")
		return
	}
	ctx.Response.SetBodyString("ok")
}
