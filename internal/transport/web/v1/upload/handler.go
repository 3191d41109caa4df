// Package upload receives multipart image uploads and attaches them to
// catalog entities.
package upload

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

var uploadEntities = map[string]bool{
	"product": true,
	"contact": true,
	"show":    true,
}

type Invalidator interface {
	Invalidate(ctx context.Context, entity, id string)
}

type Handler struct {
	Log    *log.Logger
	Media  domain.MediaProcessor
	Images domain.ImagesRepo
	Cache  Invalidator
}

// Upload godoc
// @Summary      Upload an entity image
// @Description  Multipart form: file plus entity name; entity_id and ord
// @Description  optionally link the image right away.
// @Tags         image
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} domain.APIEnvelope{data=domain.Image}
// @Failure      422 {object} domain.APIEnvelope
// @Router       /api/private/image/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "upload.image"
	reqID := mw.RequestIDFromCtx(r.Context())

	entity := r.FormValue("entity")
	if !uploadEntities[entity] {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logx.Error(h.Log, reqID, op, "missing file", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	defer file.Close()

	img, err := h.Media.Process(r.Context(), file, header.Size, header.Filename,
		header.Header.Get("Content-Type"), entity)
	if err != nil {
		logx.Error(h.Log, reqID, op, "process", err, "entity", entity)
		v1.WriteDomainError(w, r, err)
		return
	}

	if rawID := r.FormValue("entity_id"); rawID != "" {
		entityID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || entityID <= 0 {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		ord, _ := strconv.Atoi(r.FormValue("ord"))
		if err := h.Images.LinkImage(r.Context(), img.ID, entity, entityID, ord); err != nil {
			logx.Error(h.Log, reqID, op, "link", err, "image_id", img.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		h.Cache.Invalidate(context.WithoutCancel(r.Context()), entity, rawID)
	}

	logx.Info(h.Log, reqID, op, "ok", "image_id", img.ID, "entity", entity)
	v1.WriteCreated(w, r, img)
}

// Delete removes an image row and its blob.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "upload.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := h.Media.Remove(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "remove", err, "image_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "image_id", id)
	v1.WriteOKMessage(w, r, "image deleted")
}
