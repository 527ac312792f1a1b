package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound        = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrCategoryNotFound       = &AppError{http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found"}
	ErrInvalidAmount          = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must not be negative"}
	ErrInvalidBalance         = &AppError{http.StatusBadRequest, "INVALID_BALANCE", "Balance must not be negative"}
	ErrInvalidAccountType     = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_TYPE", "Invalid account type"}
	ErrInvalidTransactionType = &AppError{http.StatusBadRequest, "INVALID_TRANSACTION_TYPE", "Invalid transaction type"}
	ErrCategoryTypeMismatch   = &AppError{http.StatusBadRequest, "CATEGORY_TYPE_MISMATCH", "Category type does not match transaction type"}
	ErrCategoryInUse          = &AppError{http.StatusConflict, "CATEGORY_IN_USE", "Category has transactions and cannot be deleted"}
	ErrVersionConflict        = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrConsistencyFailure     = &AppError{http.StatusServiceUnavailable, "CONSISTENCY_FAILURE", "Balance update could not be committed, please retry"}
)
