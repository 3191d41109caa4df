// Package faq serves the public FAQ list and its admin CRUD.
package faq

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

type Invalidator interface {
	Invalidate(ctx context.Context, entity, id string)
}

type Handler struct {
	Log   *log.Logger
	Faqs  domain.FaqsRepo
	Cache Invalidator
}

// All godoc
// @Summary      Public FAQ list
// @Tags         faq
// @Produce      json
// @Success      200 {object} domain.APIEnvelope{data=[]domain.Faq}
// @Router       /api/public/faq [get]
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	const op = "faq.all"
	reqID := mw.RequestIDFromCtx(r.Context())

	faqs, err := h.Faqs.AllFaqs(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(faqs) == 0 {
		v1.WriteEmpty(w, r, "no faqs")
		return
	}
	v1.WriteOKData(w, r, faqs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "faq.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	f, err := h.Faqs.FaqByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, f)
}

func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	const op = "faq.paginate"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Faqs.FaqsPage(r.Context(), v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

type faqRequest struct {
	LabelIta  string `json:"label_ita"`
	LabelEng  string `json:"label_eng"`
	AnswerIta string `json:"answer_ita"`
	AnswerEng string `json:"answer_eng"`
}

func validateFaq(req faqRequest) error {
	ve := domain.NewValidationError()
	domain.RequireLabels(ve, req.LabelIta, req.LabelEng)
	if strings.TrimSpace(req.AnswerIta) == "" {
		ve.Add("answer_ita", "required")
	}
	if strings.TrimSpace(req.AnswerEng) == "" {
		ve.Add("answer_eng", "required")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "faq.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "faq", "")

	var req faqRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := validateFaq(req); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	f, err := h.Faqs.CreateFaq(r.Context(), domain.Faq{
		LabelIta: req.LabelIta, LabelEng: req.LabelEng,
		AnswerIta: req.AnswerIta, AnswerEng: req.AnswerEng,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", f.ID)
	v1.WriteCreated(w, r, f)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "faq.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "faq", strconv.FormatInt(id, 10))

	var req faqRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := validateFaq(req); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := h.Faqs.UpdateFaq(r.Context(), domain.Faq{
		ID: id, LabelIta: req.LabelIta, LabelEng: req.LabelEng,
		AnswerIta: req.AnswerIta, AnswerEng: req.AnswerEng,
	}); err != nil {
		logx.Error(h.Log, reqID, op, "update", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "faq updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "faq.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "faq", strconv.FormatInt(id, 10))

	if err := h.Faqs.DeleteFaq(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "faq deleted")
}
