// Package contact serves the public contact channels and their admin CRUD.
package contact

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

// Quick-link channels surfaced in the site footer.
var specificKeywords = []string{"facebook", "whatsapp", "instagram", "ebay"}

const specificLimit = 4

type Invalidator interface {
	Invalidate(ctx context.Context, entity, id string)
}

type Handler struct {
	Log      *log.Logger
	Contacts domain.ContactsRepo
	Images   domain.ImagesRepo
	Storage  domain.BlobStorage
	Cache    Invalidator
}

func (h *Handler) withURL(ctx context.Context, c domain.Contact) domain.Contact {
	if c.ImageID == nil {
		return c
	}
	img, err := h.Images.ImageByID(ctx, *c.ImageID)
	if err != nil {
		return c
	}
	u := h.Storage.URL(img.Path)
	c.ImageURL = &u
	return c
}

func (h *Handler) withURLs(ctx context.Context, contacts []domain.Contact) []domain.Contact {
	out := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, h.withURL(ctx, c))
	}
	return out
}

// All godoc
// @Summary      Public contact list
// @Tags         contact
// @Produce      json
// @Success      200 {object} domain.APIEnvelope{data=[]domain.Contact}
// @Router       /api/public/contact [get]
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	const op = "contact.all"
	reqID := mw.RequestIDFromCtx(r.Context())

	contacts, err := h.Contacts.AllContacts(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(contacts) == 0 {
		v1.WriteEmpty(w, r, "no contacts")
		return
	}
	v1.WriteOKData(w, r, h.withURLs(r.Context(), contacts))
}

// Specific returns the footer quick links, at most four.
func (h *Handler) Specific(w http.ResponseWriter, r *http.Request) {
	const op = "contact.specific"
	reqID := mw.RequestIDFromCtx(r.Context())

	contacts, err := h.Contacts.FilteredContacts(r.Context(), specificKeywords, specificLimit)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(contacts) == 0 {
		v1.WriteEmpty(w, r, "no contacts")
		return
	}
	v1.WriteOKData(w, r, h.withURLs(r.Context(), contacts))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "contact.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	c, err := h.Contacts.ContactByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, h.withURL(r.Context(), c))
}

func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	const op = "contact.paginate"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Contacts.ContactsPage(r.Context(), v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	page.Data = h.withURLs(r.Context(), page.Data)
	v1.WriteOKData(w, r, page)
}

type contactRequest struct {
	LabelIta  string `json:"label_ita"`
	LabelEng  string `json:"label_eng"`
	LinkValue string `json:"link_value"`
	ImageID   *int64 `json:"image_id"`
}

func validateContact(req contactRequest) error {
	ve := domain.NewValidationError()
	domain.RequireLabels(ve, req.LabelIta, req.LabelEng)
	if strings.TrimSpace(req.LinkValue) == "" {
		ve.Add("link_value", "required")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "contact.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "contact", "")

	var req contactRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := validateContact(req); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	c, err := h.Contacts.CreateContact(r.Context(), domain.Contact{
		LabelIta: req.LabelIta, LabelEng: req.LabelEng,
		LinkValue: req.LinkValue, ImageID: req.ImageID,
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
	const op = "contact.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "contact", strconv.FormatInt(id, 10))

	var req contactRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := validateContact(req); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := h.Contacts.UpdateContact(r.Context(), domain.Contact{
		ID: id, LabelIta: req.LabelIta, LabelEng: req.LabelEng,
		LinkValue: req.LinkValue, ImageID: req.ImageID,
	}); err != nil {
		logx.Error(h.Log, reqID, op, "update", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "contact updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "contact.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "contact", strconv.FormatInt(id, 10))

	if err := h.Contacts.DeleteContact(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "contact deleted")
}
