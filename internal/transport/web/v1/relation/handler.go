// Package relation exposes the category<->product links directly, for
// the admin association editor.
package relation

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
	Log       *log.Logger
	Relations domain.RelationsRepo
	Cache     Invalidator
}

// CategoryProducts lists the product ids linked to a category.
func (h *Handler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	const op = "relation.category_products"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	ids, err := h.Relations.ProductIDsForCategory(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	v1.WriteOKData(w, r, ids)
}

// ProductCategories lists the category ids linked to a product.
func (h *Handler) ProductCategories(w http.ResponseWriter, r *http.Request) {
	const op = "relation.product_categories"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	ids, err := h.Relations.CategoryIDsForProduct(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "load", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	v1.WriteOKData(w, r, ids)
}

// invalidate clears both sides: a link change moves products between
// category listings.
func (h *Handler) invalidate(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	h.Cache.Invalidate(ctx, "category", id)
	h.Cache.Invalidate(ctx, "product", "")
}

// SetCategoryProducts replaces the product set of a category.
func (h *Handler) SetCategoryProducts(w http.ResponseWriter, r *http.Request) {
	const op = "relation.set_category_products"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.invalidate(r.Context(), strconv.FormatInt(id, 10))

	var req struct {
		Products []int64 `json:"products"`
	}
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Relations.SetProductsForCategory(r.Context(), id, req.Products); err != nil {
		logx.Error(h.Log, reqID, op, "set", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id, "linked", len(req.Products))
	v1.WriteOKMessage(w, r, "relations updated")
}

// SetProductCategories replaces the category set of a product.
func (h *Handler) SetProductCategories(w http.ResponseWriter, r *http.Request) {
	const op = "relation.set_product_categories"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.PathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer h.invalidate(r.Context(), "")

	var req struct {
		Categories []int64 `json:"categories"`
	}
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Relations.SetCategoriesForProduct(r.Context(), id, req.Categories); err != nil {
		logx.Error(h.Log, reqID, op, "set", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "id", id, "linked", len(req.Categories))
	v1.WriteOKMessage(w, r, "relations updated")
}
