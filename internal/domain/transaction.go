package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// SignedAmount returns the balance delta implied by a transaction of
// this type: positive for INCOME, negative for EXPENSE.
func (t TransactionType) SignedAmount(amount int64) int64 {
	if t == TransactionTypeExpense {
		return -amount
	}
	return amount
}

// Transaction is an immutable ledger row. Amount is always stored
// non-negative; the sign is implied by Type. InitialBalance and
// FinalBalance snapshot the owning account's balance immediately
// before and after the commit, so FinalBalance-InitialBalance always
// equals Type.SignedAmount(Amount).
type Transaction struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	CategoryID       uuid.UUID
	Type             TransactionType
	Amount           int64
	TransactionDate  time.Time
	TransactionTime  string
	Description      string
	MerchantName     *string
	MerchantLocation *string
	InitialBalance   int64
	FinalBalance     int64
	CreatedAt        time.Time
}

// TransactionDetail is a transaction joined with its category and
// account for display.
type TransactionDetail struct {
	Transaction
	CategoryName string
	CategoryType TransactionType
	AccountName  string
	AccountType  AccountType
}

// TransactionFilter narrows and paginates a transaction listing. Nil
// pointer fields mean "no filter"; date bounds are inclusive on the
// transaction date. Search matches case-insensitively against the
// description, merchant name and merchant location.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	Type       *TransactionType
	Limit      int
	Page       int
}

// CategoryTotal is one row of the summary's per-category breakdown.
type CategoryTotal struct {
	Category string
	Total    int64
}

// Summary aggregates a user's ledger. TotalBalance reflects the live
// account balances regardless of the requested date range.
type Summary struct {
	TotalIncome  int64
	TotalExpense int64
	TotalBalance int64
	ByCategory   []CategoryTotal
}
