package postgres

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var productCols = []string{
	"id", "quantity", "label_ita", "label_eng", "description_ita", "description_eng",
	"creator", "price", "draft", "in_evidence", "deleting", "year", "code", "condition_id",
	"created_at", "updated_at",
}

var productOrderCols = map[string]bool{
	"label_ita": true, "label_eng": true, "price": true, "year": true,
	"created_at": true, "updated_at": true,
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Quantity, &p.LabelIta, &p.LabelEng, &p.DescriptionIta, &p.DescriptionEng,
		&p.Creator, &p.Price, &p.Draft, &p.InEvidence, &p.Deleting, &p.Year, &p.Code,
		&p.ConditionID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PGRepo) collectProducts(ctx context.Context, op, sqlStr string, args []any) ([]domain.Product, error) {
	r.logSQL(op, sqlStr, args)
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("%s query error: %v", op, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) ProductByID(ctx context.Context, id int64) (domain.Product, error) {
	q := r.qb().Select(productCols...).From(r.table("products")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ProductByID", sqlStr, args)

	p, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

func (r *PGRepo) ProductsPage(ctx context.Context, deleting bool, p domain.ListParams) (domain.Page[domain.Product], error) {
	p = p.Normalize()
	where := sq.Eq{"deleting": deleting}

	total, err := r.count(ctx, "ProductsPage.count", r.table("products"), where)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}

	q := r.qb().Select(productCols...).From(r.table("products")).Where(where).
		OrderBy(orderClause(p.OrderBy, p.Order, productOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()

	out, err := r.collectProducts(ctx, "ProductsPage", sqlStr, args)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

// FilterProducts backs the public catalog listing: published products
// only, optionally restricted to a category subtree, with in-evidence
// products surfaced first when requested.
func (r *PGRepo) FilterProducts(ctx context.Context, f domain.ProductFilter) (domain.Page[domain.Product], error) {
	p := f.ListParams.Normalize()
	where := sq.And{sq.Eq{"deleting": false}}
	if !f.IncludeDrafts {
		where = append(where, sq.Eq{"draft": false})
	}
	if f.CategoryID != nil {
		ids, err := r.CategoryWithDescendants(ctx, *f.CategoryID)
		if err != nil {
			return domain.Page[domain.Product]{}, err
		}
		where = append(where, sq.Expr(
			"EXISTS (SELECT 1 FROM "+r.table("category_product")+" cp WHERE cp.product_id = "+r.table("products")+".id AND cp.category_id = ANY(?))", ids))
	}

	total, err := r.count(ctx, "FilterProducts.count", r.table("products"), where)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}

	order := orderClause(p.OrderBy, p.Order, productOrderCols)
	if f.InEvidence {
		order = "in_evidence DESC, created_at DESC"
	}
	q := r.qb().Select(productCols...).From(r.table("products")).Where(where).
		OrderBy(order).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()

	out, err := r.collectProducts(ctx, "FilterProducts", sqlStr, args)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

// SearchProducts is the public label search: case-insensitive LIKE on
// the label of the requested language, published products only.
func (r *PGRepo) SearchProducts(ctx context.Context, s domain.ProductSearch) (domain.Page[domain.Product], error) {
	p := s.ListParams.Normalize()
	col := "label_eng"
	if s.Lang == "ita" {
		col = "label_ita"
	}
	needle := "%" + strings.ToLower(s.Query) + "%"
	where := sq.And{
		sq.Eq{"deleting": false},
		sq.Eq{"draft": false},
		sq.Expr("LOWER("+col+") LIKE ?", needle),
	}

	total, err := r.count(ctx, "SearchProducts.count", r.table("products"), where)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}

	q := r.qb().Select(productCols...).From(r.table("products")).Where(where).
		OrderBy(orderClause(p.OrderBy, p.Order, productOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()

	out, err := r.collectProducts(ctx, "SearchProducts", sqlStr, args)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

func (r *PGRepo) FindProductByLabels(ctx context.Context, labelIta, labelEng string) (domain.Product, bool, error) {
	q := r.qb().Select(productCols...).From(r.table("products")).
		Where(sq.Or{sq.Eq{"label_ita": labelIta}, sq.Eq{"label_eng": labelEng}}).
		Limit(1)
	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindProductByLabels", sqlStr, args)

	p, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, err
	}
	return p, true, nil
}

func (r *PGRepo) CreateProduct(ctx context.Context, pr domain.Product) (domain.Product, error) {
	q := r.qb().Insert(r.table("products")).
		Columns("quantity", "label_ita", "label_eng", "description_ita", "description_eng",
			"creator", "price", "draft", "in_evidence", "year", "code", "condition_id").
		Values(pr.Quantity, pr.LabelIta, pr.LabelEng, pr.DescriptionIta, pr.DescriptionEng,
			pr.Creator, pr.Price, pr.Draft, pr.InEvidence, pr.Year, pr.Code, pr.ConditionID).
		Suffix("RETURNING " + columns(productCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateProduct", sqlStr, args)

	out, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateProduct error: %v", err)
		return domain.Product{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateProduct(ctx context.Context, pr domain.Product) error {
	q := r.qb().Update(r.table("products")).
		SetMap(map[string]any{
			"quantity":        pr.Quantity,
			"label_ita":       pr.LabelIta,
			"label_eng":       pr.LabelEng,
			"description_ita": pr.DescriptionIta,
			"description_eng": pr.DescriptionEng,
			"creator":         pr.Creator,
			"price":           pr.Price,
			"draft":           pr.Draft,
			"in_evidence":     pr.InEvidence,
			"year":            pr.Year,
			"code":            pr.Code,
			"condition_id":    pr.ConditionID,
			"updated_at":      sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": pr.ID})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateProduct", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteProduct(ctx context.Context, id int64) error {
	q := r.qb().Delete(r.table("products")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteProduct", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetProductDraft(ctx context.Context, id int64, draft bool) error {
	return r.setProductFlag(ctx, "SetProductDraft", id, "draft", draft)
}

func (r *PGRepo) SetProductDeleting(ctx context.Context, id int64, deleting bool) error {
	return r.setProductFlag(ctx, "SetProductDeleting", id, "deleting", deleting)
}

func (r *PGRepo) setProductFlag(ctx context.Context, op string, id int64, col string, val bool) error {
	q := r.qb().Update(r.table("products")).
		SetMap(map[string]any{col: val, "updated_at": sq.Expr("now()")}).
		Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteTrashedProducts empties the recycle bin.
func (r *PGRepo) DeleteTrashedProducts(ctx context.Context) (int64, error) {
	q := r.qb().Delete(r.table("products")).Where(sq.Eq{"deleting": true})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteTrashedProducts", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
