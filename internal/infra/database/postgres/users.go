package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var userCols = []string{"id", "login", "pass_hash", "created_at"}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Login, &u.PassHash, &u.CreatedAt)
	return u, err
}

func (r *PGRepo) CreateUser(ctx context.Context, login, passHash string) (domain.User, error) {
	q := r.qb().Insert(r.table("users")).
		Columns("login", "pass_hash").
		Values(login, passHash).
		Suffix("RETURNING " + columns(userCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateUser", sqlStr, args)

	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateUser error: %v", err)
		return domain.User{}, err
	}
	return u, nil
}

func (r *PGRepo) UserByLogin(ctx context.Context, login string) (domain.User, error) {
	q := r.qb().Select(userCols...).From(r.table("users")).Where(sq.Eq{"login": login})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByLogin", sqlStr, args)

	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

func (r *PGRepo) UserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	q := r.qb().Select(userCols...).From(r.table("users")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByID", sqlStr, args)

	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

func (r *PGRepo) UsersPage(ctx context.Context, p domain.ListParams) (domain.Page[domain.User], error) {
	p = p.Normalize()
	total, err := r.count(ctx, "UsersPage.count", r.table("users"), nil)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}

	q := r.qb().Select(userCols...).From(r.table("users")).
		OrderBy("created_at DESC").
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UsersPage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return domain.Page[domain.User]{}, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

func (r *PGRepo) DeleteUser(ctx context.Context, id domain.UserID) error {
	q := r.qb().Delete(r.table("users")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteUser", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
