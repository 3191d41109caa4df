package postgres

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

func columns(cols []string) string {
	return strings.Join(cols, ", ")
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

func (r *PGRepo) count(ctx context.Context, op, table string, where sq.Sqlizer) (int64, error) {
	q := r.qb().Select("COUNT(*)").From(table)
	if where != nil {
		if and, ok := where.(sq.And); !ok || len(and) > 0 {
			q = q.Where(where)
		}
	}
	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("%s error: %v", op, err)
		return 0, err
	}
	return total, nil
}

func (r *PGRepo) exists(ctx context.Context, op, table string, where sq.Sqlizer) (bool, error) {
	q := r.qb().Select("1").From(table).Where(where).Limit(1)
	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	var one int
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.logger.Printf("%s error: %v", op, err)
		return false, err
	}
	return true, nil
}
