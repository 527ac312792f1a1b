package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountTypeCash       AccountType = "CASH"
	AccountTypeBank       AccountType = "BANK"
	AccountTypeEWallet    AccountType = "E_WALLET"
	AccountTypeInvestment AccountType = "INVESTMENT"
	AccountTypeOther      AccountType = "OTHER"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeEWallet, AccountTypeInvestment, AccountTypeOther:
		return true
	}
	return false
}

// Account is a single mutable-balance wallet. Balance is stored in the
// smallest currency denomination and, outside the administrative update
// path, is only ever written together with a transaction insert.
// Version backs the compare-and-swap on balance.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      AccountType
	Balance   int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// TransactionCount is derived; populated by List only.
	TransactionCount int64
}

// UpdateAccountParams carries the partial fields of the administrative
// account update. Nil means "leave unchanged". A direct balance edit
// bypasses the transaction-derived invariant and is meant for
// corrections, not normal flow.
type UpdateAccountParams struct {
	Name    *string
	Type    *AccountType
	Balance *int64
}
