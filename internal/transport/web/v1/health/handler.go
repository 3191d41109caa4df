package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

type Pinger interface {
	Ping(context.Context) error
}

type Handler struct {
	Log   *log.Logger
	DB    Pinger
	Cache Pinger
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.APIEnvelope{data=string}
// @Router       /api/healthz [get]
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	const op = "health.liveness"
	reqID := mw.RequestIDFromCtx(r.Context())

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOKData(w, r, "ok")
}

// Readiness godoc
// @Summary      Readiness probe, pings Postgres and Redis
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.APIEnvelope{data=string}
// @Failure      500  {object}  domain.APIEnvelope
// @Router       /api/readyz [get]
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	const op = "health.readiness"
	reqID := mw.RequestIDFromCtx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		logx.Error(h.Log, reqID, op, "db ping failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	if err := h.Cache.Ping(ctx); err != nil {
		logx.Error(h.Log, reqID, op, "cache ping failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ready")
	v1.WriteOKData(w, r, "ready")
}
