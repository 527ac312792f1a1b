package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrInvalidAmount          = errors.New("amount must not be negative")
	ErrInvalidBalance         = errors.New("balance must not be negative")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrCategoryTypeMismatch   = errors.New("category type does not match transaction type")
	ErrCategoryInUse          = errors.New("category has dependent transactions")
	ErrVersionConflict        = errors.New("optimistic lock conflict")
	ErrConsistency            = errors.New("balance update could not be committed")
)
