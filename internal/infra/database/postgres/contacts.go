package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var contactCols = []string{"id", "label_ita", "label_eng", "link_value", "image_id", "created_at", "updated_at"}

var contactOrderCols = map[string]bool{
	"label_ita": true, "label_eng": true, "created_at": true, "updated_at": true,
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.LabelIta, &c.LabelEng, &c.LinkValue, &c.ImageID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PGRepo) collectContacts(ctx context.Context, op, sqlStr string, args []any) ([]domain.Contact, error) {
	r.logSQL(op, sqlStr, args)
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("%s query error: %v", op, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) AllContacts(ctx context.Context) ([]domain.Contact, error) {
	q := r.qb().Select(contactCols...).From(r.table("contacts")).OrderBy("created_at ASC")
	sqlStr, args, _ := q.ToSql()
	return r.collectContacts(ctx, "AllContacts", sqlStr, args)
}

// FilteredContacts returns the quick-link contacts whose italian label
// contains one of the keywords (facebook, whatsapp, ...).
func (r *PGRepo) FilteredContacts(ctx context.Context, keywords []string, limit int) ([]domain.Contact, error) {
	or := sq.Or{}
	for _, kw := range keywords {
		or = append(or, sq.Like{"LOWER(label_ita)": "%" + kw + "%"})
	}
	q := r.qb().Select(contactCols...).From(r.table("contacts")).Where(or).Limit(uint64(limit))
	sqlStr, args, _ := q.ToSql()
	return r.collectContacts(ctx, "FilteredContacts", sqlStr, args)
}

func (r *PGRepo) ContactByID(ctx context.Context, id int64) (domain.Contact, error) {
	q := r.qb().Select(contactCols...).From(r.table("contacts")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ContactByID", sqlStr, args)

	c, err := scanContact(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, domain.ErrNotFound
	}
	return c, err
}

func (r *PGRepo) ContactsPage(ctx context.Context, p domain.ListParams) (domain.Page[domain.Contact], error) {
	p = p.Normalize()
	total, err := r.count(ctx, "ContactsPage.count", r.table("contacts"), nil)
	if err != nil {
		return domain.Page[domain.Contact]{}, err
	}

	q := r.qb().Select(contactCols...).From(r.table("contacts")).
		OrderBy(orderClause(p.OrderBy, p.Order, contactOrderCols)).
		Limit(uint64(p.Limit)).Offset(p.Offset())
	sqlStr, args, _ := q.ToSql()

	out, err := r.collectContacts(ctx, "ContactsPage", sqlStr, args)
	if err != nil {
		return domain.Page[domain.Contact]{}, err
	}
	return domain.NewPage(out, total, p.Page, p.Limit), nil
}

func (r *PGRepo) CreateContact(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	q := r.qb().Insert(r.table("contacts")).
		Columns("label_ita", "label_eng", "link_value", "image_id").
		Values(c.LabelIta, c.LabelEng, c.LinkValue, c.ImageID).
		Suffix("RETURNING " + columns(contactCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateContact", sqlStr, args)

	out, err := scanContact(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateContact error: %v", err)
		return domain.Contact{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateContact(ctx context.Context, c domain.Contact) error {
	q := r.qb().Update(r.table("contacts")).
		SetMap(map[string]any{
			"label_ita":  c.LabelIta,
			"label_eng":  c.LabelEng,
			"link_value": c.LinkValue,
			"image_id":   c.ImageID,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": c.ID})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateContact", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteContact(ctx context.Context, id int64) error {
	q := r.qb().Delete(r.table("contacts")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteContact", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
