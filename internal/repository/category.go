package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
)

const categoryColumns = `id, user_id, name, category_type, created_at`

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListVisible returns the system defaults together with the user's own
// categories, name ascending.
func (r *CategoryRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListVisible: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("ListVisible: scan: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListVisible: rows: %w", err)
	}
	return categories, nil
}

// GetVisible resolves a category the user is allowed to reference:
// their own or a system default.
func (r *CategoryRepository) GetVisible(ctx context.Context, userID, categoryID uuid.UUID) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`,
		categoryID, userID,
	)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetVisible: %w", domain.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("GetVisible: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, category_type, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.UserID, category.Name, category.Type, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update renames/retypes an owned category. System defaults have a
// NULL user_id and never match the owner filter.
func (r *CategoryRepository) Update(ctx context.Context, userID, categoryID uuid.UUID, name string, categoryType domain.TransactionType) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE categories SET name = $3, category_type = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+categoryColumns,
		categoryID, userID, name, categoryType,
	)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Update: %w", domain.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("Update: %w", err)
	}
	return c, nil
}

// GetOwnedForUpdate locks an owned category row. Holding this lock
// blocks concurrent transaction inserts taking FK share locks on the
// same row, which makes the dependent-transaction check race-free.
func (r *CategoryRepository) GetOwnedForUpdate(ctx context.Context, tx *sql.Tx, userID, categoryID uuid.UUID) (*domain.Category, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		categoryID, userID,
	)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetOwnedForUpdate: %w", domain.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("GetOwnedForUpdate: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) CountTransactions(ctx context.Context, tx *sql.Tx, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = $1`,
		categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountTransactions: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, tx *sql.Tx, categoryID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func scanCategory(s scanner) (*domain.Category, error) {
	var c domain.Category
	err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
