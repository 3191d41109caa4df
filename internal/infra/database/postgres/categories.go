package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var categoryCols = []string{"id", "label_ita", "label_eng", "type", "parent_id", "created_at", "updated_at"}

var categoryOrderCols = map[string]bool{
	"label_ita": true, "label_eng": true, "type": true, "created_at": true, "updated_at": true,
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.LabelIta, &c.LabelEng, &c.Type, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PGRepo) AllCategories(ctx context.Context) ([]domain.Category, error) {
	q := r.qb().Select(categoryCols...).From(r.table("categories"))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("AllCategories", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("AllCategories query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) CategoryByID(ctx context.Context, id int64) (domain.Category, error) {
	q := r.qb().Select(categoryCols...).From(r.table("categories")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CategoryByID", sqlStr, args)

	c, err := scanCategory(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, err
}

func (r *PGRepo) CategoriesPage(ctx context.Context, typeFilter *int, p domain.ListParams) (domain.Page[domain.Category], error) {
	p = p.Normalize()
	where := sq.And{}
	if typeFilter != nil {
		where = append(where, sq.Eq{"type": *typeFilter})
	}

	total, err := r.count(ctx, "CategoriesPage.count", r.table("categories"), where)
	if err != nil {
		return domain.Page[domain.Category]{}, err
	}

	q := r.qb().Select(categoryCols...).From(r.table("categories")).
		OrderBy(orderClause(p.OrderBy, p.Order, categoryOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	if len(where) > 0 {
		q = q.Where(where)
	}
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CategoriesPage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("CategoriesPage query error: %v", err)
		return domain.Page[domain.Category]{}, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return domain.Page[domain.Category]{}, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Category]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

func (r *PGRepo) CategoriesByType(ctx context.Context, typeFilter *int) ([]domain.Category, error) {
	q := r.qb().Select(categoryCols...).From(r.table("categories")).OrderBy("label_ita ASC")
	if typeFilter != nil {
		q = q.Where(sq.Eq{"type": *typeFilter})
	}
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CategoriesByType", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindCategoryDuplicate looks up another category with the same label
// tuple under the same parent. excludeID skips the row being edited.
func (r *PGRepo) FindCategoryDuplicate(ctx context.Context, labelIta, labelEng string, typ int, parentID *int64, excludeID int64) (domain.Category, bool, error) {
	where := sq.And{
		sq.Eq{"label_ita": labelIta},
		sq.Eq{"label_eng": labelEng},
		sq.Eq{"type": typ},
		sq.Eq{"parent_id": parentID}, // sq.Eq renders IS NULL for nil
	}
	if excludeID != 0 {
		where = append(where, sq.NotEq{"id": excludeID})
	}

	q := r.qb().Select(categoryCols...).From(r.table("categories")).Where(where).Limit(1)
	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindCategoryDuplicate", sqlStr, args)

	c, err := scanCategory(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, false, nil
	}
	if err != nil {
		return domain.Category{}, false, err
	}
	return c, true, nil
}

func (r *PGRepo) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	q := r.qb().Insert(r.table("categories")).
		Columns("label_ita", "label_eng", "type", "parent_id").
		Values(c.LabelIta, c.LabelEng, c.Type, c.ParentID).
		Suffix("RETURNING " + columns(categoryCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateCategory", sqlStr, args)

	out, err := scanCategory(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateCategory error: %v", err)
		return domain.Category{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateCategory(ctx context.Context, c domain.Category) error {
	q := r.qb().Update(r.table("categories")).
		SetMap(map[string]any{
			"label_ita":  c.LabelIta,
			"label_eng":  c.LabelEng,
			"type":       c.Type,
			"parent_id":  c.ParentID,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": c.ID})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateCategory", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteCategory(ctx context.Context, id int64) error {
	q := r.qb().Delete(r.table("categories")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteCategory", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) CategoryHasProducts(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "CategoryHasProducts", r.table("category_product"), sq.Eq{"category_id": id})
}

func (r *PGRepo) CategoryHasChildren(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "CategoryHasChildren", r.table("categories"), sq.Eq{"parent_id": id})
}

// CategoryWithDescendants returns the id and all ids below it, walking
// the fixed two child levels the data model guarantees.
func (r *PGRepo) CategoryWithDescendants(ctx context.Context, id int64) ([]int64, error) {
	sqlStr := `
		SELECT id FROM ` + r.table("categories") + ` WHERE id = $1
		UNION
		SELECT id FROM ` + r.table("categories") + ` WHERE parent_id = $1
		UNION
		SELECT c2.id FROM ` + r.table("categories") + ` c2
		JOIN ` + r.table("categories") + ` c1 ON c2.parent_id = c1.id
		WHERE c1.parent_id = $1`
	r.logSQL("CategoryWithDescendants", sqlStr, []any{id})

	rows, err := r.pool.Query(ctx, sqlStr, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ids = append(ids, v)
	}
	return ids, rows.Err()
}

func (r *PGRepo) CategoryProductsPage(ctx context.Context, id int64, p domain.ListParams) (domain.Page[domain.Product], error) {
	p = p.Normalize()
	join := r.table("category_product") + " cp ON cp.product_id = p.id"
	where := sq.Eq{"cp.category_id": id}

	countQ := r.qb().Select("COUNT(*)").From(r.table("products") + " p").Join(join).Where(where)
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("CategoryProductsPage.count", sqlStr, args)
	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return domain.Page[domain.Product]{}, err
	}

	q := r.qb().Select(prefixed("p", productCols)...).From(r.table("products") + " p").
		Join(join).Where(where).
		OrderBy("p.label_ita ASC").
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ = q.ToSql()
	r.logSQL("CategoryProductsPage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		pr, err := scanProduct(rows)
		if err != nil {
			return domain.Page[domain.Product]{}, err
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}
