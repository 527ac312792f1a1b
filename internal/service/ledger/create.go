package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/logging"
)

type CreateTransactionRequest struct {
	UserID           uuid.UUID
	AccountID        uuid.UUID
	CategoryID       uuid.UUID
	Type             domain.TransactionType
	Amount           int64
	TransactionDate  time.Time
	TransactionTime  string
	Description      string
	MerchantName     *string
	MerchantLocation *string
}

// CreateTransaction records a transaction and moves the account
// balance in one atomic unit. The inserted row snapshots the balance
// read under a row lock, so initial_balance always equals the account
// balance at the instant of commit.
func (s *Service) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	if err := validateCreate(req); err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}

	if _, err := s.accounts.GetOwned(ctx, req.UserID, req.AccountID); err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}

	category, err := s.categories.GetVisible(ctx, req.UserID, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}
	if category.Type != req.Type {
		return nil, fmt.Errorf("CreateTransaction: %w", domain.ErrCategoryTypeMismatch)
	}

	var created *domain.Transaction
	err = s.withRetry(ctx, func() error {
		var commitErr error
		created, commitErr = s.commit(ctx, req)
		return commitErr
	})
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}

	log.Info("transaction recorded",
		"transaction_id", created.ID,
		"account_id", created.AccountID,
		"type", created.Type,
		"amount", created.Amount,
		"final_balance", created.FinalBalance,
	)

	return created, nil
}

func validateCreate(req CreateTransactionRequest) error {
	if req.Amount < 0 {
		return domain.ErrInvalidAmount
	}
	if !req.Type.IsValid() {
		return domain.ErrInvalidTransactionType
	}
	return nil
}

// commit is the atomic unit: lock the account row, snapshot its
// balance, insert the transaction, compare-and-swap the balance. Both
// writes land or neither does.
func (s *Service) commit(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("commit: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	// Ownership was checked pre-flight; re-check under the lock so an
	// id guessed after that check still cannot touch a foreign account.
	if account.UserID != req.UserID {
		return nil, fmt.Errorf("commit: %w", domain.ErrAccountNotFound)
	}

	finalBalance := account.Balance + req.Type.SignedAmount(req.Amount)

	now := time.Now().UTC()
	txTime := req.TransactionTime
	if txTime == "" {
		txTime = now.Format("15:04:05")
	}

	txn := &domain.Transaction{
		ID:               uuid.New(),
		AccountID:        account.ID,
		CategoryID:       req.CategoryID,
		Type:             req.Type,
		Amount:           req.Amount,
		TransactionDate:  req.TransactionDate,
		TransactionTime:  txTime,
		Description:      req.Description,
		MerchantName:     req.MerchantName,
		MerchantLocation: req.MerchantLocation,
		InitialBalance:   account.Balance,
		FinalBalance:     finalBalance,
		CreatedAt:        now,
	}

	if err := s.transactions.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("commit: insert transaction: %w", err)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, finalBalance, account.Version+1); err != nil {
		return nil, fmt.Errorf("commit: update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return txn, nil
}
