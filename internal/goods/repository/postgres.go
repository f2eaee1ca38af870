package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

const uniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, g *model.Goods) error {
	query := `
        INSERT INTO goods (
            id, article, name, description, price, stock, rating, shop_id,
            category_id, status, discount_status, discount, created_at, updated_at
        )
        VALUES (
            :id, :article, :name, :description, :price, :stock, :rating, :shop_id,
            :category_id, :status, :discount_status, :discount, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return articleConflict(err, g.Article)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Goods, error) {
	var g model.Goods
	query := `SELECT * FROM goods WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &g, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *PGRepository) Search(ctx context.Context, p predicate.Predicate) ([]model.Goods, error) {
	query, args, err := p.Query("SELECT * FROM goods", " ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("compose goods query: %w", err)
	}

	goods := []model.Goods{}
	if err := r.DB.SelectContext(ctx, &goods, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return goods, nil
}

func (r *PGRepository) Update(ctx context.Context, g *model.Goods) error {
	query := `
        UPDATE goods
        SET article = :article,
            name = :name,
            description = :description,
            price = :price,
            stock = :stock,
            rating = :rating,
            category_id = :category_id,
            status = :status,
            discount_status = :discount_status,
            discount = :discount,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return articleConflict(err, g.Article)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM attribute_values WHERE goods_id = $1`,
		`DELETE FROM goods_images WHERE goods_id = $1`,
		`DELETE FROM goods WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PGRepository) IsArticleUnique(ctx context.Context, article, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM goods WHERE article = $1`
	args := []any{article}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) ReserveStock(ctx context.Context, deltas map[string]int) ([]model.Goods, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
        UPDATE goods
        SET stock = stock + $1, updated_at = NOW()
        WHERE id = $2 AND stock + $1 >= 0
        RETURNING *
    `

	// Lock rows in a stable order so concurrent orders cannot deadlock.
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	updated := make([]model.Goods, 0, len(ids))
	for _, id := range ids {
		var g model.Goods
		err := tx.GetContext(ctx, &g, query, deltas[id], id)
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM goods WHERE id = $1)`, id); err != nil {
				return nil, err
			}
			if !exists {
				return nil, apperr.NotFound("goods", id)
			}
			return nil, apperr.InvalidArgument("stock", fmt.Sprintf("insufficient stock for goods %s", id))
		}
		if err != nil {
			return nil, err
		}
		updated = append(updated, g)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func articleConflict(err error, article string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(fmt.Sprintf("article %q already exists", article))
	}
	return err
}

type PGImageRepository struct {
	DB *sqlx.DB
}

func NewPGImageRepository(db *sqlx.DB) *PGImageRepository {
	return &PGImageRepository{DB: db}
}

func (r *PGImageRepository) Create(ctx context.Context, img *model.GoodsImage) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if img.IsMain {
		query := `UPDATE goods_images SET is_main = FALSE, updated_at = $2 WHERE goods_id = $1 AND is_main`
		if _, err := tx.ExecContext(ctx, query, img.GoodsID, img.UpdatedAt); err != nil {
			return err
		}
	}

	query := `
        INSERT INTO goods_images (id, goods_id, url, is_main, created_at, updated_at)
        VALUES (:id, :goods_id, :url, :is_main, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, img); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGImageRepository) FindByID(ctx context.Context, id string) (*model.GoodsImage, error) {
	var img model.GoodsImage
	err := r.DB.GetContext(ctx, &img, `SELECT * FROM goods_images WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}

func (r *PGImageRepository) Search(ctx context.Context, p predicate.Predicate) ([]model.GoodsImage, error) {
	query, args, err := p.Query("SELECT * FROM goods_images", " ORDER BY is_main DESC, created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("compose image query: %w", err)
	}

	images := []model.GoodsImage{}
	if err := r.DB.SelectContext(ctx, &images, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *PGImageRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM goods_images WHERE id = $1`, id)
	return err
}
