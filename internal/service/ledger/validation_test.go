package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetapp/dompet-api/internal/domain"
)

func TestValidateCreate(t *testing.T) {
	base := CreateTransactionRequest{
		UserID:     uuid.New(),
		AccountID:  uuid.New(),
		CategoryID: uuid.New(),
		Type:       domain.TransactionTypeExpense,
		Amount:     1000,
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateTransactionRequest)
		wantErr error
	}{
		{
			name:   "valid expense",
			mutate: func(r *CreateTransactionRequest) {},
		},
		{
			name:   "zero amount is allowed",
			mutate: func(r *CreateTransactionRequest) { r.Amount = 0 },
		},
		{
			name:    "negative amount",
			mutate:  func(r *CreateTransactionRequest) { r.Amount = -1 },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown type",
			mutate:  func(r *CreateTransactionRequest) { r.Type = "TRANSFER" },
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name:    "empty type",
			mutate:  func(r *CreateTransactionRequest) { r.Type = "" },
			wantErr: domain.ErrInvalidTransactionType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)

			err := validateCreate(req)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
