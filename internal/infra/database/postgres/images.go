package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

var imageCols = []string{"id", "path", "alt_ita", "alt_eng", "created_at"}

func scanImage(row pgx.Row) (domain.Image, error) {
	var img domain.Image
	err := row.Scan(&img.ID, &img.Path, &img.AltIta, &img.AltEng, &img.CreatedAt)
	return img, err
}

func (r *PGRepo) CreateImage(ctx context.Context, img domain.Image) (domain.Image, error) {
	q := r.qb().Insert(r.table("images")).
		Columns("path", "alt_ita", "alt_eng").
		Values(img.Path, img.AltIta, img.AltEng).
		Suffix("RETURNING " + columns(imageCols))
	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateImage", sqlStr, args)

	out, err := scanImage(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateImage error: %v", err)
		return domain.Image{}, err
	}
	return out, nil
}

func (r *PGRepo) ImageByID(ctx context.Context, id int64) (domain.Image, error) {
	q := r.qb().Select(imageCols...).From(r.table("images")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ImageByID", sqlStr, args)

	img, err := scanImage(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Image{}, domain.ErrNotFound
	}
	return img, err
}

func (r *PGRepo) DeleteImage(ctx context.Context, id int64) error {
	q := r.qb().Delete(r.table("images")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteImage", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ProductImages returns the gallery of a product, in display order.
func (r *PGRepo) ProductImages(ctx context.Context, productID int64) ([]domain.Image, error) {
	q := r.qb().Select(prefixed("i", imageCols)...).
		From(r.table("images") + " i").
		Join(r.table("image_associations") + " ia ON ia.image_id = i.id").
		Where(sq.And{sq.Eq{"ia.entity": "product"}, sq.Eq{"ia.entity_id": productID}}).
		OrderBy("ia.ord ASC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ProductImages", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *PGRepo) LinkImage(ctx context.Context, imageID int64, entity string, entityID int64, ord int) error {
	q := r.qb().Insert(r.table("image_associations")).
		Columns("image_id", "entity", "entity_id", "ord").
		Values(imageID, entity, entityID, ord)
	sqlStr, args, _ := q.ToSql()
	r.logSQL("LinkImage", sqlStr, args)

	_, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("LinkImage error: %v", err)
	}
	return err
}

// UnlinkEntityImages drops the associations of one entity and reports
// which images became orphans, so the caller can remove the blobs too.
func (r *PGRepo) UnlinkEntityImages(ctx context.Context, entity string, entityID int64) ([]int64, error) {
	del := r.qb().Delete(r.table("image_associations")).
		Where(sq.And{sq.Eq{"entity": entity}, sq.Eq{"entity_id": entityID}}).
		Suffix("RETURNING image_id")
	sqlStr, args, _ := del.ToSql()
	r.logSQL("UnlinkEntityImages", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var removed []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		removed = append(removed, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var orphans []int64
	for _, id := range removed {
		used, err := r.exists(ctx, "UnlinkEntityImages.used", r.table("image_associations"), sq.Eq{"image_id": id})
		if err != nil {
			return nil, err
		}
		if !used {
			orphans = append(orphans, id)
		}
	}
	return orphans, nil
}
