package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/logging"
)

type categoryRepo interface {
	ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, userID, categoryID uuid.UUID, name string, categoryType domain.TransactionType) (*domain.Category, error)
	GetOwnedForUpdate(ctx context.Context, tx *sql.Tx, userID, categoryID uuid.UUID) (*domain.Category, error)
	CountTransactions(ctx context.Context, tx *sql.Tx, categoryID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx *sql.Tx, categoryID uuid.UUID) error
}

type CategoryService struct {
	categories categoryRepo
	db         *sql.DB
}

func NewCategoryService(categories categoryRepo, db *sql.DB) *CategoryService {
	return &CategoryService{categories: categories, db: db}
}

func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	categories, err := s.categories.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name string, categoryType domain.TransactionType) (*domain.Category, error) {
	if !categoryType.IsValid() {
		return nil, fmt.Errorf("CreateCategory: %w", domain.ErrInvalidTransactionType)
	}

	category := &domain.Category{
		ID:        uuid.New(),
		UserID:    &userID,
		Name:      name,
		Type:      categoryType,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("CreateCategory: %w", err)
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, name string, categoryType domain.TransactionType) (*domain.Category, error) {
	if !categoryType.IsValid() {
		return nil, fmt.Errorf("UpdateCategory: %w", domain.ErrInvalidTransactionType)
	}

	category, err := s.categories.Update(ctx, userID, categoryID, name, categoryType)
	if err != nil {
		return nil, fmt.Errorf("UpdateCategory: %w", err)
	}
	return category, nil
}

// DeleteCategory removes an owned category unless transactions still
// reference it. The whole check-then-delete runs in one transaction
// holding a lock on the category row, so a concurrent transaction
// insert referencing the category cannot slip between the count and
// the delete.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("DeleteCategory: begin tx: %w", err)
	}
	defer tx.Rollback()

	category, err := s.categories.GetOwnedForUpdate(ctx, tx, userID, categoryID)
	if err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}

	count, err := s.categories.CountTransactions(ctx, tx, category.ID)
	if err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("DeleteCategory: %w", domain.ErrCategoryInUse)
	}

	if err := s.categories.Delete(ctx, tx, category.ID); err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("DeleteCategory: commit: %w", err)
	}

	log.Info("category deleted", "category_id", categoryID, "user_id", userID)
	return nil
}
