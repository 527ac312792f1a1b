package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/logging"
)

type accountRepo interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, userID, accountID uuid.UUID, params domain.UpdateAccountParams) (*domain.Account, error)
}

type AccountService struct {
	accounts accountRepo
}

func NewAccountService(accounts accountRepo) *AccountService {
	return &AccountService{accounts: accounts}
}

// CreateAccount opens a new wallet with a starting balance. The
// starting balance is not a transaction; it is the baseline the
// ledger's signed deltas accumulate on.
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, name string, accountType domain.AccountType, balance int64) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if balance < 0 {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidBalance)
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidAccountType)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      accountType,
		Balance:   balance,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	log.Info("account created",
		"account_id", account.ID,
		"user_id", userID,
		"type", accountType,
	)

	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount is the administrative partial update. Setting balance
// here bypasses the ledger; callers are expected to use it for
// corrections only.
func (s *AccountService) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, params domain.UpdateAccountParams) (*domain.Account, error) {
	if params.Balance != nil && *params.Balance < 0 {
		return nil, fmt.Errorf("UpdateAccount: %w", domain.ErrInvalidBalance)
	}
	if params.Type != nil && !params.Type.IsValid() {
		return nil, fmt.Errorf("UpdateAccount: %w", domain.ErrInvalidAccountType)
	}

	account, err := s.accounts.Update(ctx, userID, accountID, params)
	if err != nil {
		return nil, fmt.Errorf("UpdateAccount: %w", err)
	}
	return account, nil
}
