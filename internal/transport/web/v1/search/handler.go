// Package search backs the admin panel cross-entity label search.
package search

import (
	"log"
	"net/http"
	"strings"

	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

type Handler struct {
	Log    *log.Logger
	Search domain.SearchRepo
}

// ByLabel godoc
// @Summary      Admin label search over one entity
// @Tags         search
// @Produce      json
// @Param        entity path string true "product, macro-category, category, sub-category, faq, contact or show"
// @Param        query query string true "at least 3 characters"
// @Success      200 {object} domain.APIEnvelope{data=domain.Page[domain.SearchHit]}
// @Failure      400 {object} domain.APIEnvelope
// @Router       /api/private/search/{entity} [get]
func (h *Handler) ByLabel(w http.ResponseWriter, r *http.Request) {
	const op = "search.by_label"
	reqID := mw.RequestIDFromCtx(r.Context())

	entity := r.PathValue("entity")
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if len(query) < 3 {
		logx.Error(h.Log, reqID, op, "query too short", domain.ErrBadParams, "entity", entity)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	page, err := h.Search.SearchByLabel(r.Context(), entity, query, v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "search", err, "entity", entity)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "entity", entity, "total", page.Total)
	v1.WriteOKData(w, r, page)
}
