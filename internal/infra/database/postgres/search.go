package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

// searchTarget maps a search entity name to the table it queries.
// Categories split into three entities by tree level, so "category"
// never matches macro or sub categories.
type searchTarget struct {
	table      string
	hasCreator bool
	typeFilter *int
}

func intPtr(v int) *int { return &v }

var searchTargets = map[string]searchTarget{
	"product":        {table: "products", hasCreator: true},
	"macro-category": {table: "categories", typeFilter: intPtr(domain.CategoryTypeMacro)},
	"category":       {table: "categories", typeFilter: intPtr(domain.CategoryTypeCategory)},
	"sub-category":   {table: "categories", typeFilter: intPtr(domain.CategoryTypeSub)},
	"faq":            {table: "faqs"},
	"contact":        {table: "contacts"},
	"show":           {table: "shows"},
}

// SearchByLabel is the admin cross-entity search on the italian label.
func (r *PGRepo) SearchByLabel(ctx context.Context, entity, query string, p domain.ListParams) (domain.Page[domain.SearchHit], error) {
	t, ok := searchTargets[entity]
	if !ok {
		return domain.Page[domain.SearchHit]{}, domain.ErrBadParams
	}
	p = p.Normalize()

	where := sq.And{sq.Expr("LOWER(label_ita) LIKE ?", "%"+strings.ToLower(query)+"%")}
	if t.typeFilter != nil {
		where = append(where, sq.Eq{"type": *t.typeFilter})
	}

	total, err := r.count(ctx, "SearchByLabel.count", r.table(t.table), where)
	if err != nil {
		return domain.Page[domain.SearchHit]{}, err
	}

	creatorCol := "NULL"
	if t.hasCreator {
		creatorCol = "creator"
	}
	q := r.qb().Select("id", "label_ita", creatorCol, "updated_at").
		From(r.table(t.table)).Where(where).
		OrderBy("updated_at DESC").
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()
	r.logSQL("SearchByLabel", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("SearchByLabel query error: %v", err)
		return domain.Page[domain.SearchHit]{}, err
	}
	defer rows.Close()

	var out []domain.SearchHit
	for rows.Next() {
		var h domain.SearchHit
		if err := rows.Scan(&h.ID, &h.LabelIta, &h.Creator, &h.UpdatedAt); err != nil {
			return domain.Page[domain.SearchHit]{}, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.SearchHit]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}
