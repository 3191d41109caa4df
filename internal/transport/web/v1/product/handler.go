// Package product exposes the public catalog listings and the admin
// product CRUD with its draft/trash lifecycle.
package product

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
	Log        *log.Logger
	Products   domain.ProductsRepo
	Relations  domain.RelationsRepo
	Images     domain.ImagesRepo
	Conditions domain.ConditionsRepo
	Storage    domain.BlobStorage
	Cache      Invalidator
}

// productView is a product with its gallery and category links resolved.
type productView struct {
	domain.Product
	Images     []imageView `json:"images"`
	Categories []int64     `json:"categories"`
}

type imageView struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

func (h *Handler) view(ctx context.Context, p domain.Product) (productView, error) {
	imgs, err := h.Images.ProductImages(ctx, p.ID)
	if err != nil {
		return productView{}, err
	}
	catIDs, err := h.Relations.CategoryIDsForProduct(ctx, p.ID)
	if err != nil {
		return productView{}, err
	}
	views := make([]imageView, 0, len(imgs))
	for _, img := range imgs {
		views = append(views, imageView{ID: img.ID, URL: h.Storage.URL(img.Path)})
	}
	if catIDs == nil {
		catIDs = []int64{}
	}
	return productView{Product: p, Images: views, Categories: catIDs}, nil
}

// publicProduct is the trimmed projection served to the public site.
// Lifecycle fields (draft, deleting, creator, timestamps) stay internal.
type publicProduct struct {
	ID             int64          `json:"id"`
	Code           *string        `json:"code"`
	Quantity       int            `json:"quantity"`
	LabelIta       string         `json:"label_ita"`
	LabelEng       string         `json:"label_eng"`
	Year           *int           `json:"year"`
	DescriptionIta string         `json:"description_ita"`
	DescriptionEng string         `json:"description_eng"`
	Price          *float64       `json:"price"`
	Condition      *conditionView `json:"condition"`
	ImagesURL      []string       `json:"images_url"`
}

type conditionView struct {
	LabelIta string `json:"label_ita"`
	LabelEng string `json:"label_eng"`
}

func (h *Handler) publicView(ctx context.Context, p domain.Product) (publicProduct, error) {
	imgs, err := h.Images.ProductImages(ctx, p.ID)
	if err != nil {
		return publicProduct{}, err
	}
	urls := make([]string, 0, len(imgs))
	for _, img := range imgs {
		urls = append(urls, h.Storage.URL(img.Path))
	}

	var cond *conditionView
	if p.ConditionID != nil {
		c, err := h.Conditions.ConditionByID(ctx, *p.ConditionID)
		if err == nil {
			cond = &conditionView{LabelIta: c.LabelIta, LabelEng: c.LabelEng}
		}
	}

	return publicProduct{
		ID: p.ID, Code: p.Code, Quantity: p.Quantity,
		LabelIta: p.LabelIta, LabelEng: p.LabelEng, Year: p.Year,
		DescriptionIta: p.DescriptionIta, DescriptionEng: p.DescriptionEng,
		Price: p.Price, Condition: cond, ImagesURL: urls,
	}, nil
}

// GetPublic godoc
// @Summary      Product detail for the public site
// @Tags         product
// @Produce      json
// @Param        id path int true "product id"
// @Success      200 {object} domain.APIEnvelope{data=publicProduct}
// @Failure      404 {object} domain.APIEnvelope
// @Router       /api/public/product/get/{id} [get]
func (h *Handler) GetPublic(w http.ResponseWriter, r *http.Request) {
	const op = "product.get_public"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	p, err := h.Products.ProductByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	// drafts and trashed products are not publicly visible
	if p.Draft || p.Deleting {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}
	view, err := h.publicView(r.Context(), p)
	if err != nil {
		logx.Error(h.Log, reqID, op, "resolve view", err, "id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	v1.WriteOKData(w, r, view)
}

// Get is the admin detail: the full record with gallery and category links.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "product.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	p, err := h.Products.ProductByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	view, err := h.view(r.Context(), p)
	if err != nil {
		logx.Error(h.Log, reqID, op, "resolve view", err, "id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	v1.WriteOKData(w, r, view)
}

func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	const op = "product.paginate"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Products.ProductsPage(r.Context(), false, v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

func filterFromQuery(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	f := domain.ProductFilter{
		ListParams: v1.ListParamsFromQuery(r),
		InEvidence: q.Get("in_evidence") == "true",
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.ProductFilter{}, domain.ErrBadParams
		}
		f.CategoryID = &id
	}
	return f, nil
}

// Filter is the public catalog listing: published products, optional
// category subtree restriction, in-evidence products first on request.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	const op = "product.filter"
	reqID := mw.RequestIDFromCtx(r.Context())

	f, err := filterFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	page, err := h.Products.FilterProducts(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "filter", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

// FilterAll is the admin variant of Filter: drafts are included.
func (h *Handler) FilterAll(w http.ResponseWriter, r *http.Request) {
	const op = "product.filter_all"
	reqID := mw.RequestIDFromCtx(r.Context())

	f, err := filterFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	f.IncludeDrafts = true

	page, err := h.Products.FilterProducts(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "filter", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

// Search rejects queries shorter than three characters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	const op = "product.search"
	reqID := mw.RequestIDFromCtx(r.Context())
	q := r.URL.Query()

	query := strings.TrimSpace(q.Get("query"))
	if len(query) < 3 {
		logx.Error(h.Log, reqID, op, "query too short", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	page, err := h.Products.SearchProducts(r.Context(), domain.ProductSearch{
		ListParams: v1.ListParamsFromQuery(r),
		Query:      query,
		Lang:       q.Get("lang"),
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "search", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

// Trash lists soft-deleted products awaiting permanent removal.
func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	const op = "product.trash"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Products.ProductsPage(r.Context(), true, v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

type productRequest struct {
	Quantity       int      `json:"quantity"`
	LabelIta       string   `json:"label_ita"`
	LabelEng       string   `json:"label_eng"`
	DescriptionIta string   `json:"description_ita"`
	DescriptionEng string   `json:"description_eng"`
	Creator        string   `json:"creator"`
	Price          *float64 `json:"price"`
	Draft          bool     `json:"draft"`
	InEvidence     bool     `json:"in_evidence"`
	Year           *int     `json:"year"`
	Code           *string  `json:"code"`
	ConditionID    *int64   `json:"condition_id"`
	Categories     []int64  `json:"categories"`
}

func validateProduct(req productRequest) error {
	ve := domain.NewValidationError()
	domain.RequireLabels(ve, req.LabelIta, req.LabelEng)
	if req.Quantity < 0 {
		ve.Add("quantity", "must not be negative")
	}
	if req.Price != nil && *req.Price < 0 {
		ve.Add("price", "must not be negative")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func (req productRequest) toDomain(id int64) domain.Product {
	return domain.Product{
		ID: id, Quantity: req.Quantity,
		LabelIta: req.LabelIta, LabelEng: req.LabelEng,
		DescriptionIta: req.DescriptionIta, DescriptionEng: req.DescriptionEng,
		Creator: req.Creator, Price: req.Price,
		Draft: req.Draft, InEvidence: req.InEvidence,
		Year: req.Year, Code: req.Code, ConditionID: req.ConditionID,
	}
}

func (h *Handler) invalidate(ctx context.Context, id string) {
	// product writes also affect category listings and admin search
	ctx = context.WithoutCancel(ctx)
	h.Cache.Invalidate(ctx, "product", id)
	h.Cache.Invalidate(ctx, "category", "")
	h.Cache.Invalidate(ctx, "search", "")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "product.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.invalidate(r.Context(), "")

	var req productRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := validateProduct(req); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	p, err := h.Products.CreateProduct(r.Context(), req.toDomain(0))
	if err != nil {
		logx.Error(h.Log, reqID, op, "create", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(req.Categories) > 0 {
		if err := h.Relations.SetCategoriesForProduct(r.Context(), p.ID, req.Categories); err != nil {
			logx.Error(h.Log, reqID, op, "link categories", err, "id", p.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}

	logx.Info(h.Log, reqID, op, "ok", "id", p.ID)
	v1.WriteCreated(w, r, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "product.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.invalidate(r.Context(), strconv.FormatInt(id, 10))

	var req productRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := validateProduct(req); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := h.Products.UpdateProduct(r.Context(), req.toDomain(id)); err != nil {
		logx.Error(h.Log, reqID, op, "update", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if req.Categories != nil {
		if err := h.Relations.SetCategoriesForProduct(r.Context(), id, req.Categories); err != nil {
			logx.Error(h.Log, reqID, op, "link categories", err, "id", id)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "product updated")
}

// SetDraft toggles publication without touching the rest of the record.
func (h *Handler) SetDraft(w http.ResponseWriter, r *http.Request) {
	const op = "product.draft"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.invalidate(r.Context(), strconv.FormatInt(id, 10))

	var req struct {
		Draft bool `json:"draft"`
	}
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Products.SetProductDraft(r.Context(), id, req.Draft); err != nil {
		logx.Error(h.Log, reqID, op, "set", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", id, "draft", req.Draft)
	v1.WriteOKMessage(w, r, "product updated")
}

// Delete moves the product to the trash (soft delete).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "product.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.invalidate(r.Context(), strconv.FormatInt(id, 10))

	if err := h.Products.SetProductDeleting(r.Context(), id, true); err != nil {
		logx.Error(h.Log, reqID, op, "trash", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "product moved to trash")
}

// Restore brings a trashed product back.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	const op = "product.restore"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.invalidate(r.Context(), strconv.FormatInt(id, 10))

	if err := h.Products.SetProductDeleting(r.Context(), id, false); err != nil {
		logx.Error(h.Log, reqID, op, "restore", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "product restored")
}

const cloneSuffix = " (Clone)"

// Clone duplicates a product as an unpublished draft with "(Clone)"
// appended to the labels. Category links are carried over, the gallery
// is not. A live clone with the same labels blocks the operation; a
// trashed one is replaced.
func (h *Handler) Clone(w http.ResponseWriter, r *http.Request) {
	const op = "product.clone"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.invalidate(r.Context(), "")

	src, err := h.Products.ProductByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	labelIta := src.LabelIta + cloneSuffix
	labelEng := src.LabelEng + cloneSuffix
	existing, found, err := h.Products.FindProductByLabels(r.Context(), labelIta, labelEng)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup clone", err, "id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if found {
		if !existing.Deleting {
			logx.Error(h.Log, reqID, op, "clone exists", domain.ErrDuplicate, "id", existing.ID)
			v1.WriteDomainError(w, r, domain.ErrDuplicate)
			return
		}
		if err := h.Products.DeleteProduct(r.Context(), existing.ID); err != nil {
			logx.Error(h.Log, reqID, op, "replace trashed clone", err, "id", existing.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}

	clone := src
	clone.ID = 0
	clone.LabelIta, clone.LabelEng = labelIta, labelEng
	clone.Draft = true
	clone.InEvidence = false
	clone.Deleting = false
	if u, ok := domain.UserFromCtx(r.Context()); ok {
		clone.Creator = u.Login
	}

	out, err := h.Products.CreateProduct(r.Context(), clone)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create", err, "id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if cats, err := h.Relations.CategoryIDsForProduct(r.Context(), id); err == nil && len(cats) > 0 {
		if err := h.Relations.SetCategoriesForProduct(r.Context(), out.ID, cats); err != nil {
			logx.Error(h.Log, reqID, op, "link categories", err, "id", out.ID)
		}
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id, "clone", out.ID)
	v1.WriteCreated(w, r, out)
}

// EmptyTrash permanently removes every trashed product, including
// gallery blobs and image rows.
func (h *Handler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	const op = "product.empty_trash"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.invalidate(r.Context(), "")

	// rows stay in place until DeleteTrashedProducts below, so the page
	// numbers are stable while the galleries are cleaned up
	for page := 1; ; page++ {
		trashed, err := h.Products.ProductsPage(r.Context(), true, domain.ListParams{Page: page, Limit: 100})
		if err != nil {
			logx.Error(h.Log, reqID, op, "list", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		for _, p := range trashed.Data {
			orphans, err := h.Images.UnlinkEntityImages(r.Context(), "product", p.ID)
			if err != nil {
				logx.Error(h.Log, reqID, op, "unlink images", err, "id", p.ID)
				continue
			}
			for _, imgID := range orphans {
				img, err := h.Images.ImageByID(r.Context(), imgID)
				if err != nil {
					continue
				}
				if err := h.Images.DeleteImage(r.Context(), imgID); err != nil {
					continue
				}
				if err := h.Storage.Delete(r.Context(), img.Path); err != nil {
					logx.Error(h.Log, reqID, op, "delete blob", err, "path", img.Path)
				}
			}
		}
		if len(trashed.Data) == 0 || page >= trashed.LastPage {
			break
		}
	}

	n, err := h.Products.DeleteTrashedProducts(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "delete", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "deleted", n)
	v1.WriteOKData(w, r, map[string]int64{"deleted": n})
}
