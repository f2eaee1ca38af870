package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, parent_id, name, description, enabled, created_at, updated_at)
        VALUES (:id, :parent_id, :name, :description, :enabled, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT * FROM categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.DB.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name ASC, id ASC`)
	return categories, err
}

func (r *PGRepository) FindRoots(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT * FROM categories WHERE parent_id IS NULL ORDER BY name ASC, id ASC`
	err := r.DB.SelectContext(ctx, &categories, query)
	return categories, err
}

func (r *PGRepository) FindChildren(ctx context.Context, parentID string) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT * FROM categories WHERE parent_id = $1 ORDER BY name ASC, id ASC`
	err := r.DB.SelectContext(ctx, &categories, query, parentID)
	return categories, err
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            enabled = :enabled,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

// UNION rather than UNION ALL, so a corrupted parent loop still terminates.
const subtreeQuery = `
    WITH RECURSIVE subtree AS (
        SELECT id FROM categories WHERE id = $1
        UNION
        SELECT c.id FROM categories c JOIN subtree s ON c.parent_id = s.id
    )
    SELECT id FROM subtree ORDER BY id
`

func (r *PGRepository) Delete(ctx context.Context, id string) ([]string, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ids []string
	if err := tx.SelectContext(ctx, &ids, subtreeQuery, id); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	statements := []string{
		`UPDATE goods SET category_id = NULL, updated_at = now() WHERE category_id IN (?)`,
		`DELETE FROM attribute_values WHERE attribute_id IN (SELECT id FROM category_attributes WHERE category_id IN (?))`,
		`DELETE FROM category_attributes WHERE category_id IN (?)`,
		`DELETE FROM categories WHERE id IN (?)`,
	}
	for _, stmt := range statements {
		query, args, err := sqlx.In(stmt, ids)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}
