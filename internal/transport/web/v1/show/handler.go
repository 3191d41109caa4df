// Package show manages trade show records, split publicly into past
// and upcoming listings.
package show

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

const newShowsLimit = 6

type Invalidator interface {
	Invalidate(ctx context.Context, entity, id string)
}

type Handler struct {
	Log     *log.Logger
	Shows   domain.ShowsRepo
	Images  domain.ImagesRepo
	Storage domain.BlobStorage
	Cache   Invalidator

	// Now is swappable for tests.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) withURL(ctx context.Context, s domain.Show) domain.Show {
	if s.ImageID == nil {
		return s
	}
	img, err := h.Images.ImageByID(ctx, *s.ImageID)
	if err != nil {
		return s
	}
	u := h.Storage.URL(img.Path)
	s.ImageURL = &u
	return s
}

// Old godoc
// @Summary      Past trade shows, paginated
// @Tags         show
// @Produce      json
// @Success      200 {object} domain.APIEnvelope{data=domain.Page[domain.Show]}
// @Router       /api/public/show/old [get]
func (h *Handler) Old(w http.ResponseWriter, r *http.Request) {
	const op = "show.old"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Shows.OldShowsPage(r.Context(), h.now(), v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	for i, s := range page.Data {
		page.Data[i] = h.withURL(r.Context(), s)
	}
	v1.WriteOKData(w, r, page)
}

// New lists upcoming or open-ended shows, soonest first.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	const op = "show.new"
	reqID := mw.RequestIDFromCtx(r.Context())

	shows, err := h.Shows.NewShows(r.Context(), h.now(), newShowsLimit)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(shows) == 0 {
		v1.WriteEmpty(w, r, "no upcoming shows")
		return
	}
	for i, s := range shows {
		shows[i] = h.withURL(r.Context(), s)
	}
	v1.WriteOKData(w, r, shows)
}

// publicShow is the trimmed projection for the public site: no ids of
// internal records, no timestamps.
type publicShow struct {
	ID             int64      `json:"id"`
	LabelIta       string     `json:"label_ita"`
	LabelEng       string     `json:"label_eng"`
	Location       string     `json:"location"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	DescriptionIta *string    `json:"description_ita"`
	DescriptionEng *string    `json:"description_eng"`
	Link           *string    `json:"link"`
	ImageURL       *string    `json:"image_url"`
}

// GetPublic godoc
// @Summary      Trade show detail for the public site
// @Tags         show
// @Produce      json
// @Param        id path int true "show id"
// @Success      200 {object} domain.APIEnvelope{data=publicShow}
// @Failure      404 {object} domain.APIEnvelope
// @Router       /api/public/show/get/{id} [get]
func (h *Handler) GetPublic(w http.ResponseWriter, r *http.Request) {
	const op = "show.get_public"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	s, err := h.Shows.ShowByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	s = h.withURL(r.Context(), s)
	v1.WriteOKData(w, r, publicShow{
		ID: s.ID, LabelIta: s.LabelIta, LabelEng: s.LabelEng,
		Location: s.Location, StartDate: s.StartDate, EndDate: s.EndDate,
		DescriptionIta: s.DescriptionIta, DescriptionEng: s.DescriptionEng,
		Link: s.Link, ImageURL: s.ImageURL,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "show.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	s, err := h.Shows.ShowByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, h.withURL(r.Context(), s))
}

func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	const op = "show.paginate"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Shows.ShowsPage(r.Context(), v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

type showRequest struct {
	LabelIta       string  `json:"label_ita"`
	LabelEng       string  `json:"label_eng"`
	Location       string  `json:"location"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	DescriptionIta *string `json:"description_ita"`
	DescriptionEng *string `json:"description_eng"`
	Link           *string `json:"link"`
	ImageID        *int64  `json:"image_id"`
}

func (req showRequest) toDomain(id int64) (domain.Show, error) {
	ve := domain.NewValidationError()
	domain.RequireLabels(ve, req.LabelIta, req.LabelEng)
	if strings.TrimSpace(req.Location) == "" {
		ve.Add("location", "required")
	}

	var start time.Time
	if req.StartDate == "" {
		ve.Add("start_date", "required")
	} else {
		var err error
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			ve.Add("start_date", "must be YYYY-MM-DD")
		}
	}

	var end *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			ve.Add("end_date", "must be YYYY-MM-DD")
		} else if !start.IsZero() && t.Before(start) {
			ve.Add("end_date", "must not precede start_date")
		} else {
			end = &t
		}
	}

	if !ve.Empty() {
		return domain.Show{}, ve
	}
	return domain.Show{
		ID: id, LabelIta: req.LabelIta, LabelEng: req.LabelEng,
		Location: req.Location, StartDate: start, EndDate: end,
		DescriptionIta: req.DescriptionIta, DescriptionEng: req.DescriptionEng,
		Link: req.Link, ImageID: req.ImageID,
	}, nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "show.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "show", "")

	var req showRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	s, err := req.toDomain(0)
	if err != nil {
		logx.Error(h.Log, reqID, op, "validate", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	out, err := h.Shows.CreateShow(r.Context(), s)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", out.ID)
	v1.WriteCreated(w, r, out)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "show.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "show", strconv.FormatInt(id, 10))

	var req showRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	s, err := req.toDomain(id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "validate", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := h.Shows.UpdateShow(r.Context(), s); err != nil {
		logx.Error(h.Log, reqID, op, "update", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "show updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "show.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "show", strconv.FormatInt(id, 10))

	if err := h.Shows.DeleteShow(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "show deleted")
}
