// Package configjson stores the frontend configuration document on the
// public disk. Reads always hit storage: the endpoint is excluded from
// the response cache so edits show up immediately.
package configjson

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

const configKey = "config/fe_config.json"

const maxConfigSize = 1 << 20

type Invalidator interface {
	Invalidate(ctx context.Context, entity, id string)
}

type Handler struct {
	Log     *log.Logger
	Storage domain.BlobStorage
	Cache   Invalidator
}

// Read godoc
// @Summary      Frontend configuration document
// @Tags         config
// @Produce      json
// @Success      200 {object} domain.APIEnvelope
// @Router       /api/public/config [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "config.read"
	reqID := mw.RequestIDFromCtx(r.Context())

	exists, err := h.Storage.Exists(r.Context(), configKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "stat", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if !exists {
		v1.WriteEmpty(w, r, "no configuration")
		return
	}

	rc, err := h.Storage.Get(r.Context(), configKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxConfigSize))
	if err != nil {
		logx.Error(h.Log, reqID, op, "read", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	v1.WriteOKData(w, r, json.RawMessage(raw))
}

// Write replaces the whole document. The body must be a JSON object.
func (h *Handler) Write(w http.ResponseWriter, r *http.Request) {
	const op = "config.write"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "config", "")

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxConfigSize))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if err := h.Storage.Put(r.Context(), configKey, bytes.NewReader(raw), int64(len(raw)), "application/json"); err != nil {
		logx.Error(h.Log, reqID, op, "put", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "bytes", len(raw))
	v1.WriteOKMessage(w, r, "configuration saved")
}
