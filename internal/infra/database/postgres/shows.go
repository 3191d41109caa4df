package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var showCols = []string{
	"id", "label_ita", "label_eng", "location", "start_date", "end_date",
	"description_ita", "description_eng", "link", "image_id", "created_at", "updated_at",
}

var showOrderCols = map[string]bool{
	"label_ita": true, "label_eng": true, "location": true, "start_date": true,
	"end_date": true, "created_at": true, "updated_at": true,
}

func scanShow(row pgx.Row) (domain.Show, error) {
	var s domain.Show
	err := row.Scan(
		&s.ID, &s.LabelIta, &s.LabelEng, &s.Location, &s.StartDate, &s.EndDate,
		&s.DescriptionIta, &s.DescriptionEng, &s.Link, &s.ImageID, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *PGRepo) collectShows(ctx context.Context, op, sqlStr string, args []any) ([]domain.Show, error) {
	r.logSQL(op, sqlStr, args)
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("%s query error: %v", op, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Show
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// OldShowsPage lists trade shows that already ended.
func (r *PGRepo) OldShowsPage(ctx context.Context, now time.Time, p domain.ListParams) (domain.Page[domain.Show], error) {
	p = p.Normalize()
	where := sq.Lt{"end_date": now}

	total, err := r.count(ctx, "OldShowsPage.count", r.table("shows"), where)
	if err != nil {
		return domain.Page[domain.Show]{}, err
	}

	q := r.qb().Select(showCols...).From(r.table("shows")).Where(where).
		OrderBy(orderClause(p.OrderBy, p.Order, showOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()

	out, err := r.collectShows(ctx, "OldShowsPage", sqlStr, args)
	if err != nil {
		return domain.Page[domain.Show]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

// NewShows lists upcoming or open-ended shows, soonest first.
func (r *PGRepo) NewShows(ctx context.Context, now time.Time, limit int) ([]domain.Show, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	q := r.qb().Select(showCols...).From(r.table("shows")).
		Where(sq.Or{sq.GtOrEq{"end_date": now}, sq.Eq{"end_date": nil}}).
		OrderBy("start_date ASC").
		Limit(uint64(limit))
	sqlStr, args, _ := q.ToSql()
	return r.collectShows(ctx, "NewShows", sqlStr, args)
}

func (r *PGRepo) ShowByID(ctx context.Context, id int64) (domain.Show, error) {
	q := r.qb().Select(showCols...).From(r.table("shows")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ShowByID", sqlStr, args)

	s, err := scanShow(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Show{}, domain.ErrNotFound
	}
	return s, err
}

func (r *PGRepo) ShowsPage(ctx context.Context, p domain.ListParams) (domain.Page[domain.Show], error) {
	p = p.Normalize()
	total, err := r.count(ctx, "ShowsPage.count", r.table("shows"), nil)
	if err != nil {
		return domain.Page[domain.Show]{}, err
	}

	q := r.qb().Select(showCols...).From(r.table("shows")).
		OrderBy(orderClause(p.OrderBy, p.Order, showOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()

	out, err := r.collectShows(ctx, "ShowsPage", sqlStr, args)
	if err != nil {
		return domain.Page[domain.Show]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

func (r *PGRepo) CreateShow(ctx context.Context, s domain.Show) (domain.Show, error) {
	q := r.qb().Insert(r.table("shows")).
		Columns("label_ita", "label_eng", "location", "start_date", "end_date",
			"description_ita", "description_eng", "link", "image_id").
		Values(s.LabelIta, s.LabelEng, s.Location, s.StartDate, s.EndDate,
			s.DescriptionIta, s.DescriptionEng, s.Link, s.ImageID).
		Suffix("RETURNING " + columns(showCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateShow", sqlStr, args)

	out, err := scanShow(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateShow error: %v", err)
		return domain.Show{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateShow(ctx context.Context, s domain.Show) error {
	q := r.qb().Update(r.table("shows")).
		SetMap(map[string]any{
			"label_ita":       s.LabelIta,
			"label_eng":       s.LabelEng,
			"location":        s.Location,
			"start_date":      s.StartDate,
			"end_date":        s.EndDate,
			"description_ita": s.DescriptionIta,
			"description_eng": s.DescriptionEng,
			"link":            s.Link,
			"image_id":        s.ImageID,
			"updated_at":      sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": s.ID})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateShow", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteShow(ctx context.Context, id int64) error {
	q := r.qb().Delete(r.table("shows")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteShow", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
