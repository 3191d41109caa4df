// Package condition manages the product condition lookup table.
package condition

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

type Invalidator interface {
	Invalidate(ctx context.Context, entity, id string)
}

type Handler struct {
	Log        *log.Logger
	Conditions domain.ConditionsRepo
	Cache      Invalidator
}

// All lists every condition for the public product detail page.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	const op = "condition.all"
	reqID := mw.RequestIDFromCtx(r.Context())

	conds, err := h.Conditions.AllConditions(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(conds) == 0 {
		v1.WriteEmpty(w, r, "no conditions")
		return
	}
	v1.WriteOKData(w, r, conds)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "condition.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	c, err := h.Conditions.ConditionByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, c)
}

func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	const op = "condition.paginate"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Conditions.ConditionsPage(r.Context(), v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

type conditionRequest struct {
	LabelIta string `json:"label_ita"`
	LabelEng string `json:"label_eng"`
}

func (h *Handler) validate(ctx context.Context, req conditionRequest, excludeID int64) error {
	ve := domain.NewValidationError()
	domain.RequireLabels(ve, req.LabelIta, req.LabelEng)
	if !ve.Empty() {
		return ve
	}
	_, dup, err := h.Conditions.FindConditionDuplicate(ctx, req.LabelIta, req.LabelEng, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return domain.ErrDuplicate
	}
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "condition.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "condition", "")

	var req conditionRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.validate(r.Context(), req, 0); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	c, err := h.Conditions.CreateCondition(r.Context(), domain.Condition{
		LabelIta: req.LabelIta, LabelEng: req.LabelEng,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", c.ID)
	v1.WriteCreated(w, r, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "condition.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "condition", strconv.FormatInt(id, 10))

	var req conditionRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.validate(r.Context(), req, id); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := h.Conditions.UpdateCondition(r.Context(), domain.Condition{
		ID: id, LabelIta: req.LabelIta, LabelEng: req.LabelEng,
	}); err != nil {
		logx.Error(h.Log, reqID, op, "update", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "condition updated")
}

// Delete refuses when any product still references the condition.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "condition.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "condition", strconv.FormatInt(id, 10))

	inUse, err := h.Conditions.ConditionInUse(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if inUse {
		logx.Error(h.Log, reqID, op, "in use", domain.ErrHasAssociations, "id", id)
		v1.WriteDomainError(w, r, domain.ErrHasAssociations)
		return
	}

	if err := h.Conditions.DeleteCondition(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "condition deleted")
}
