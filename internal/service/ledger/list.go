package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
)

const (
	defaultListLimit = 10
	defaultListPage  = 1
)

// ListTransactions returns one page of the user's transactions,
// newest date first. A page past the end of the result set is an
// empty slice, not an error.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Page <= 0 {
		filter.Page = defaultListPage
	}

	details, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	return details, nil
}
