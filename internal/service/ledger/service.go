// Package ledger implements the ledger consistency engine: transaction
// creation paired atomically with the account balance update, filtered
// listing, and summary aggregation.
package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
)

type accountStore interface {
	GetOwned(ctx context.Context, userID, accountID uuid.UUID) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, newBalance, newVersion int64) error
	SumBalances(ctx context.Context, userID uuid.UUID) (int64, error)
}

type categoryStore interface {
	GetVisible(ctx context.Context, userID, categoryID uuid.UUID) (*domain.Category, error)
}

type transactionStore interface {
	Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error
	List(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.TransactionDetail, error)
	SumByType(ctx context.Context, userID uuid.UUID, txType domain.TransactionType, start, end *time.Time) (int64, error)
	SumByCategory(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]domain.CategoryTotal, error)
}

type Service struct {
	accounts     accountStore
	categories   categoryStore
	transactions transactionStore
	db           *sql.DB
}

func NewService(accounts accountStore, categories categoryStore, transactions transactionStore, db *sql.DB) *Service {
	return &Service{
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		db:           db,
	}
}
