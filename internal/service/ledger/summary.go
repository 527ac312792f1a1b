package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
)

// Summary aggregates the user's ledger. TotalBalance is the live sum
// of account balances and ignores the date range. The date range
// narrows income, expense and the per-category breakdown only when
// both bounds are supplied; a single bound is ignored.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*domain.Summary, error) {
	if start == nil || end == nil {
		start, end = nil, nil
	}

	totalBalance, err := s.accounts.SumBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Summary: %w", err)
	}

	totalIncome, err := s.transactions.SumByType(ctx, userID, domain.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, fmt.Errorf("Summary: income: %w", err)
	}

	totalExpense, err := s.transactions.SumByType(ctx, userID, domain.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, fmt.Errorf("Summary: expense: %w", err)
	}

	byCategory, err := s.transactions.SumByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("Summary: by category: %w", err)
	}

	return &domain.Summary{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		TotalBalance: totalBalance,
		ByCategory:   byCategory,
	}, nil
}
