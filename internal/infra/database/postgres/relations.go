package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

func (r *PGRepo) ProductIDsForCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	return r.relationIDs(ctx, "ProductIDsForCategory", "product_id", sq.Eq{"category_id": categoryID})
}

func (r *PGRepo) CategoryIDsForProduct(ctx context.Context, productID int64) ([]int64, error) {
	return r.relationIDs(ctx, "CategoryIDsForProduct", "category_id", sq.Eq{"product_id": productID})
}

func (r *PGRepo) relationIDs(ctx context.Context, op, col string, where sq.Eq) ([]int64, error) {
	q := r.qb().Select(col).From(r.table("category_product")).Where(where)
	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SetProductsForCategory replaces the product set of a category. Rows
// not present in productIDs are removed.
func (r *PGRepo) SetProductsForCategory(ctx context.Context, categoryID int64, productIDs []int64) error {
	return r.syncRelation(ctx, "SetProductsForCategory",
		sq.Eq{"category_id": categoryID}, "product_id", productIDs,
		func(id int64) [2]any { return [2]any{categoryID, id} })
}

func (r *PGRepo) SetCategoriesForProduct(ctx context.Context, productID int64, categoryIDs []int64) error {
	return r.syncRelation(ctx, "SetCategoriesForProduct",
		sq.Eq{"product_id": productID}, "category_id", categoryIDs,
		func(id int64) [2]any { return [2]any{id, productID} })
}

func (r *PGRepo) syncRelation(ctx context.Context, op string, owner sq.Eq, otherCol string, ids []int64, pair func(int64) [2]any) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	where := sq.And{owner}
	if len(ids) > 0 {
		where = append(where, sq.Expr(otherCol+" != ALL(?)", ids))
	}
	del := r.qb().Delete(r.table("category_product")).Where(where)
	sqlStr, args, _ := del.ToSql()
	r.logSQL(op+".delete", sqlStr, args)
	if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
		return err
	}

	if len(ids) > 0 {
		ins := r.qb().Insert(r.table("category_product")).Columns("category_id", "product_id")
		for _, id := range ids {
			p := pair(id)
			ins = ins.Values(p[0], p[1])
		}
		ins = ins.Suffix("ON CONFLICT DO NOTHING")
		sqlStr, args, _ = ins.ToSql()
		r.logSQL(op+".insert", sqlStr, args)
		if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UnlinkCategoryProducts detaches every product from a category before
// the category itself is deleted.
func (r *PGRepo) UnlinkCategoryProducts(ctx context.Context, categoryID int64) (int64, error) {
	q := r.qb().Delete(r.table("category_product")).Where(sq.Eq{"category_id": categoryID})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UnlinkCategoryProducts", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
