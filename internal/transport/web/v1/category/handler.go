// Package category exposes the catalog tree and the admin category CRUD.
package category

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/ValerioGc/shop-manager/internal/catalog"
	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

// Invalidator clears cached responses of an entity after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, entity, id string)
}

type Handler struct {
	Log        *log.Logger
	Categories domain.CategoriesRepo
	Relations  domain.RelationsRepo
	Cache      Invalidator
}

// Tree godoc
// @Summary      Catalog navigation tree
// @Description  Three level category tree ordered by label of the requested language.
// @Tags         category
// @Produce      json
// @Param        lang query string false "ita or eng" default(eng)
// @Success      200 {object} domain.APIEnvelope{data=[]catalog.Node}
// @Router       /api/public/category/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	const op = "category.tree"
	reqID := mw.RequestIDFromCtx(r.Context())

	cats, err := h.Categories.AllCategories(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "load categories", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(cats) == 0 {
		logx.Info(h.Log, reqID, op, "no categories")
		v1.WriteEmpty(w, r, "no categories")
		return
	}

	tree := catalog.BuildTree(cats, r.URL.Query().Get("lang"))
	logx.Info(h.Log, reqID, op, "ok", "roots", len(tree))
	v1.WriteOKData(w, r, tree)
}

// Products lists the published products of a category (public listing).
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	const op = "category.products"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	page, err := h.Categories.CategoryProductsPage(r.Context(), id, v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "category.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	c, err := h.Categories.CategoryByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, c)
}

// Paginate lists categories, optionally filtered by level type.
func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	const op = "category.paginate"
	reqID := mw.RequestIDFromCtx(r.Context())

	var typeFilter *int
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil || t < domain.CategoryTypeMacro || t > domain.CategoryTypeSub {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		typeFilter = &t
	}

	page, err := h.Categories.CategoriesPage(r.Context(), typeFilter, v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

// All lists categories without pagination, for admin select boxes.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	const op = "category.all"
	reqID := mw.RequestIDFromCtx(r.Context())

	var typeFilter *int
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		typeFilter = &t
	}

	cats, err := h.Categories.CategoriesByType(r.Context(), typeFilter)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, cats)
}

type categoryRequest struct {
	LabelIta string  `json:"label_ita"`
	LabelEng string  `json:"label_eng"`
	Type     int     `json:"type"`
	ParentID *int64  `json:"parent_id"`
	Products []int64 `json:"products"`
}

func (h *Handler) validate(ctx context.Context, req categoryRequest, excludeID int64) error {
	ve := domain.NewValidationError()
	domain.RequireLabels(ve, req.LabelIta, req.LabelEng)
	if req.Type < domain.CategoryTypeMacro || req.Type > domain.CategoryTypeSub {
		ve.Add("type", "must be 0, 1 or 2")
	}
	if req.Type == domain.CategoryTypeMacro && req.ParentID != nil {
		ve.Add("parent_id", "macro categories have no parent")
	}
	if req.Type > domain.CategoryTypeMacro && req.ParentID == nil {
		ve.Add("parent_id", "required")
	}
	if req.ParentID != nil {
		parent, err := h.Categories.CategoryByID(ctx, *req.ParentID)
		if err != nil {
			ve.Add("parent_id", "parent does not exist")
		} else if parent.Type != req.Type-1 {
			ve.Add("parent_id", "parent must be one level above")
		}
	}
	if !ve.Empty() {
		return ve
	}

	_, dup, err := h.Categories.FindCategoryDuplicate(ctx, req.LabelIta, req.LabelEng, req.Type, req.ParentID, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return domain.ErrDuplicate
	}
	return nil
}

// Create godoc
// @Summary      Create category
// @Tags         category
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} domain.APIEnvelope{data=domain.Category}
// @Failure      422 {object} domain.APIEnvelope
// @Router       /api/private/category/create [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "category.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "category", "")

	var req categoryRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.validate(r.Context(), req, 0); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	c, err := h.Categories.CreateCategory(r.Context(), domain.Category{
		LabelIta: req.LabelIta, LabelEng: req.LabelEng, Type: req.Type, ParentID: req.ParentID,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	if len(req.Products) > 0 {
		if err := h.Relations.SetProductsForCategory(r.Context(), c.ID, req.Products); err != nil {
			logx.Error(h.Log, reqID, op, "link products", err, "id", c.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		h.Cache.Invalidate(context.WithoutCancel(r.Context()), "product", "")
	}

	logx.Info(h.Log, reqID, op, "ok", "id", c.ID)
	v1.WriteCreated(w, r, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "category.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "category", strconv.FormatInt(id, 10))

	var req categoryRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.validate(r.Context(), req, id); err != nil {
		logx.Error(h.Log, reqID, op, "validate", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	err = h.Categories.UpdateCategory(r.Context(), domain.Category{
		ID: id, LabelIta: req.LabelIta, LabelEng: req.LabelEng, Type: req.Type, ParentID: req.ParentID,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "update", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if req.Products != nil {
		if err := h.Relations.SetProductsForCategory(r.Context(), id, req.Products); err != nil {
			logx.Error(h.Log, reqID, op, "link products", err, "id", id)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		h.Cache.Invalidate(context.WithoutCancel(r.Context()), "product", "")
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "category updated")
}

// Delete refuses when the category still has children or products.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "category.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "category", strconv.FormatInt(id, 10))

	if hasChildren, err := h.Categories.CategoryHasChildren(r.Context(), id); err != nil {
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	} else if hasChildren {
		logx.Error(h.Log, reqID, op, "has children", domain.ErrHasAssociations, "id", id)
		v1.WriteDomainError(w, r, domain.ErrHasAssociations)
		return
	}
	if hasProducts, err := h.Categories.CategoryHasProducts(r.Context(), id); err != nil {
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	} else if hasProducts {
		logx.Error(h.Log, reqID, op, "has products", domain.ErrHasAssociations, "id", id)
		v1.WriteDomainError(w, r, domain.ErrHasAssociations)
		return
	}

	if err := h.Categories.DeleteCategory(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKMessage(w, r, "category deleted")
}

// Unlink detaches every product from the category without deleting it.
func (h *Handler) Unlink(w http.ResponseWriter, r *http.Request) {
	const op = "category.unlink"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "category", strconv.FormatInt(id, 10))
	defer h.Cache.Invalidate(context.WithoutCancel(r.Context()), "product", "")

	n, err := h.Relations.UnlinkCategoryProducts(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "unlink", err, "id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id, "unlinked", n)
	v1.WriteOKData(w, r, map[string]int64{"unlinked": n})
}
