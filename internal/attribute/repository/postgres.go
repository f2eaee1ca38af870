package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

const uniqueViolation = "23505"

type PGDefinitionRepository struct {
	DB *sqlx.DB
}

func NewPGDefinitionRepository(db *sqlx.DB) *PGDefinitionRepository {
	return &PGDefinitionRepository{DB: db}
}

func (r *PGDefinitionRepository) Create(ctx context.Context, d *model.AttributeDefinition) error {
	query := `
        INSERT INTO category_attributes (id, category_id, name, type, created_at, updated_at)
        VALUES (:id, :category_id, :name, :type, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, d)
	return err
}

func (r *PGDefinitionRepository) FindByID(ctx context.Context, id string) (*model.AttributeDefinition, error) {
	var d model.AttributeDefinition
	err := r.DB.GetContext(ctx, &d, `SELECT * FROM category_attributes WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGDefinitionRepository) Search(ctx context.Context, p predicate.Predicate) ([]model.AttributeDefinition, error) {
	query, args, err := p.Query("SELECT * FROM category_attributes", " ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("compose attribute query: %w", err)
	}

	defs := []model.AttributeDefinition{}
	if err := r.DB.SelectContext(ctx, &defs, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *PGDefinitionRepository) Update(ctx context.Context, d *model.AttributeDefinition) error {
	query := `
        UPDATE category_attributes
        SET category_id = :category_id,
            name = :name,
            type = :type,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, d)
	return err
}

func (r *PGDefinitionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attribute_values WHERE attribute_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM category_attributes WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

type PGValueRepository struct {
	DB *sqlx.DB
}

func NewPGValueRepository(db *sqlx.DB) *PGValueRepository {
	return &PGValueRepository{DB: db}
}

func (r *PGValueRepository) Create(ctx context.Context, v *model.AttributeValue) error {
	query := `
        INSERT INTO attribute_values (id, goods_id, attribute_id, value, created_at, updated_at)
        VALUES (:id, :goods_id, :attribute_id, :value, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, v)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(fmt.Sprintf("goods %s already has a value for attribute %s", v.GoodsID, v.AttributeID))
	}
	return err
}

func (r *PGValueRepository) FindByID(ctx context.Context, id string) (*model.AttributeValue, error) {
	var v model.AttributeValue
	err := r.DB.GetContext(ctx, &v, `SELECT * FROM attribute_values WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGValueRepository) Search(ctx context.Context, p predicate.Predicate) ([]model.AttributeValue, error) {
	query, args, err := p.Query("SELECT * FROM attribute_values", " ORDER BY goods_id ASC, attribute_id ASC")
	if err != nil {
		return nil, fmt.Errorf("compose attribute value query: %w", err)
	}

	values := []model.AttributeValue{}
	if err := r.DB.SelectContext(ctx, &values, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return values, nil
}

func (r *PGValueRepository) Update(ctx context.Context, v *model.AttributeValue) error {
	query := `UPDATE attribute_values SET value = :value, updated_at = :updated_at WHERE id = :id`
	_, err := r.DB.NamedExecContext(ctx, query, v)
	return err
}

func (r *PGValueRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM attribute_values WHERE id = $1`, id)
	return err
}
