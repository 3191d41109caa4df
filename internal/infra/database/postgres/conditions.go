package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var conditionCols = []string{"id", "label_ita", "label_eng", "created_at", "updated_at"}

var conditionOrderCols = map[string]bool{
	"label_ita": true, "label_eng": true, "created_at": true, "updated_at": true,
}

func scanCondition(row pgx.Row) (domain.Condition, error) {
	var c domain.Condition
	err := row.Scan(&c.ID, &c.LabelIta, &c.LabelEng, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PGRepo) AllConditions(ctx context.Context) ([]domain.Condition, error) {
	q := r.qb().Select(conditionCols...).From(r.table("conditions")).OrderBy("label_ita ASC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("AllConditions", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) ConditionByID(ctx context.Context, id int64) (domain.Condition, error) {
	q := r.qb().Select(conditionCols...).From(r.table("conditions")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ConditionByID", sqlStr, args)

	c, err := scanCondition(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Condition{}, domain.ErrNotFound
	}
	return c, err
}

func (r *PGRepo) ConditionsPage(ctx context.Context, p domain.ListParams) (domain.Page[domain.Condition], error) {
	p = p.Normalize()
	total, err := r.count(ctx, "ConditionsPage.count", r.table("conditions"), nil)
	if err != nil {
		return domain.Page[domain.Condition]{}, err
	}

	q := r.qb().Select(conditionCols...).From(r.table("conditions")).
		OrderBy(orderClause(p.OrderBy, p.Order, conditionOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ConditionsPage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return domain.Page[domain.Condition]{}, err
	}
	defer rows.Close()

	var out []domain.Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return domain.Page[domain.Condition]{}, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Condition]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

func (r *PGRepo) FindConditionDuplicate(ctx context.Context, labelIta, labelEng string, excludeID int64) (domain.Condition, bool, error) {
	where := sq.And{sq.Eq{"label_ita": labelIta}, sq.Eq{"label_eng": labelEng}}
	if excludeID != 0 {
		where = append(where, sq.NotEq{"id": excludeID})
	}

	q := r.qb().Select(conditionCols...).From(r.table("conditions")).Where(where).Limit(1)
	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindConditionDuplicate", sqlStr, args)

	c, err := scanCondition(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Condition{}, false, nil
	}
	if err != nil {
		return domain.Condition{}, false, err
	}
	return c, true, nil
}

func (r *PGRepo) CreateCondition(ctx context.Context, c domain.Condition) (domain.Condition, error) {
	q := r.qb().Insert(r.table("conditions")).
		Columns("label_ita", "label_eng").
		Values(c.LabelIta, c.LabelEng).
		Suffix("RETURNING " + columns(conditionCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateCondition", sqlStr, args)

	out, err := scanCondition(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateCondition error: %v", err)
		return domain.Condition{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateCondition(ctx context.Context, c domain.Condition) error {
	q := r.qb().Update(r.table("conditions")).
		SetMap(map[string]any{
			"label_ita":  c.LabelIta,
			"label_eng":  c.LabelEng,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": c.ID})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateCondition", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteCondition(ctx context.Context, id int64) error {
	q := r.qb().Delete(r.table("conditions")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteCondition", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) ConditionInUse(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "ConditionInUse", r.table("products"), sq.Eq{"condition_id": id})
}
