package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var faqCols = []string{"id", "label_ita", "label_eng", "answer_ita", "answer_eng", "created_at", "updated_at"}

var faqOrderCols = map[string]bool{
	"label_ita": true, "label_eng": true, "created_at": true, "updated_at": true,
}

func scanFaq(row pgx.Row) (domain.Faq, error) {
	var f domain.Faq
	err := row.Scan(&f.ID, &f.LabelIta, &f.LabelEng, &f.AnswerIta, &f.AnswerEng, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *PGRepo) AllFaqs(ctx context.Context) ([]domain.Faq, error) {
	q := r.qb().Select(faqCols...).From(r.table("faqs")).OrderBy("created_at DESC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("AllFaqs", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Faq
	for rows.Next() {
		f, err := scanFaq(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PGRepo) FaqByID(ctx context.Context, id int64) (domain.Faq, error) {
	q := r.qb().Select(faqCols...).From(r.table("faqs")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("FaqByID", sqlStr, args)

	f, err := scanFaq(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Faq{}, domain.ErrNotFound
	}
	return f, err
}

func (r *PGRepo) FaqsPage(ctx context.Context, p domain.ListParams) (domain.Page[domain.Faq], error) {
	p = p.Normalize()
	total, err := r.count(ctx, "FaqsPage.count", r.table("faqs"), nil)
	if err != nil {
		return domain.Page[domain.Faq]{}, err
	}

	q := r.qb().Select(faqCols...).From(r.table("faqs")).
		OrderBy(orderClause(p.OrderBy, p.Order, faqOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()
	r.logSQL("FaqsPage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return domain.Page[domain.Faq]{}, err
	}
	defer rows.Close()

	var out []domain.Faq
	for rows.Next() {
		f, err := scanFaq(rows)
		if err != nil {
			return domain.Page[domain.Faq]{}, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Faq]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

func (r *PGRepo) CreateFaq(ctx context.Context, f domain.Faq) (domain.Faq, error) {
	q := r.qb().Insert(r.table("faqs")).
		Columns("label_ita", "label_eng", "answer_ita", "answer_eng").
		Values(f.LabelIta, f.LabelEng, f.AnswerIta, f.AnswerEng).
		Suffix("RETURNING " + columns(faqCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateFaq", sqlStr, args)

	out, err := scanFaq(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateFaq error: %v", err)
		return domain.Faq{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateFaq(ctx context.Context, f domain.Faq) error {
	q := r.qb().Update(r.table("faqs")).
		SetMap(map[string]any{
			"label_ita":  f.LabelIta,
			"label_eng":  f.LabelEng,
			"answer_ita": f.AnswerIta,
			"answer_eng": f.AnswerEng,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": f.ID})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateFaq", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteFaq(ctx context.Context, id int64) error {
	q := r.qb().Delete(r.table("faqs")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteFaq", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
