package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/logging"
	"github.com/dompetapp/dompet-api/internal/service/ledger"
)

const maxDescriptionLength = 500

type ledgerService interface {
	CreateTransaction(ctx context.Context, req ledger.CreateTransactionRequest) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.TransactionDetail, error)
}

type TransactionHandler struct {
	ledger ledgerService
}

func NewTransactionHandler(ledgerSvc ledgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledgerSvc}
}

type createTransactionRequest struct {
	Amount           int64   `json:"amount"`
	AccountID        string  `json:"account_id"`
	CategoryID       string  `json:"category_id"`
	Type             string  `json:"type"`
	TransactionDate  string  `json:"transaction_date"`
	TransactionTime  string  `json:"transaction_time"`
	Description      string  `json:"description"`
	MerchantName     *string `json:"merchant_name"`
	MerchantLocation *string `json:"merchant_location"`
}

func (r createTransactionRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Amount < 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than or equal to 0"})
	}
	if _, err := uuid.Parse(r.AccountID); err != nil {
		errs = append(errs, FieldError{Field: "account_id", Message: "must be a valid id"})
	}
	if _, err := uuid.Parse(r.CategoryID); err != nil {
		errs = append(errs, FieldError{Field: "category_id", Message: "must be a valid id"})
	}
	if !domain.TransactionType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be INCOME or EXPENSE"})
	}
	if _, err := time.Parse(dateLayout, r.TransactionDate); err != nil {
		errs = append(errs, FieldError{Field: "transaction_date", Message: "invalid date format (YYYY-MM-DD)"})
	}
	if _, ok := normalizeTime(r.TransactionTime); !ok {
		errs = append(errs, FieldError{Field: "transaction_time", Message: "invalid time format (HH:mm[:ss])"})
	}
	if len(r.Description) > maxDescriptionLength {
		errs = append(errs, FieldError{Field: "description", Message: "must be at most 500 characters"})
	}

	return errs
}

type transactionDTO struct {
	ID               uuid.UUID `json:"id"`
	AccountID        uuid.UUID `json:"account_id"`
	CategoryID       uuid.UUID `json:"category_id"`
	Type             string    `json:"type"`
	Amount           int64     `json:"amount"`
	TransactionDate  string    `json:"transaction_date"`
	TransactionTime  string    `json:"transaction_time"`
	Description      string    `json:"description"`
	MerchantName     *string   `json:"merchant_name"`
	MerchantLocation *string   `json:"merchant_location"`
	InitialBalance   int64     `json:"initial_balance"`
	FinalBalance     int64     `json:"final_balance"`
	CreatedAt        time.Time `json:"created_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:               t.ID,
		AccountID:        t.AccountID,
		CategoryID:       t.CategoryID,
		Type:             string(t.Type),
		Amount:           t.Amount,
		TransactionDate:  t.TransactionDate.Format(dateLayout),
		TransactionTime:  t.TransactionTime,
		Description:      t.Description,
		MerchantName:     t.MerchantName,
		MerchantLocation: t.MerchantLocation,
		InitialBalance:   t.InitialBalance,
		FinalBalance:     t.FinalBalance,
		CreatedAt:        t.CreatedAt,
	}
}

type transactionDetailDTO struct {
	transactionDTO
	CategoryName string `json:"category_name"`
	CategoryType string `json:"category_type"`
	AccountName  string `json:"account_name"`
	AccountType  string `json:"account_type"`
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	txDate, _ := time.Parse(dateLayout, req.TransactionDate)
	txTime, _ := normalizeTime(req.TransactionTime)

	txn, err := h.ledger.CreateTransaction(r.Context(), ledger.CreateTransactionRequest{
		UserID:           userID,
		AccountID:        uuid.MustParse(req.AccountID),
		CategoryID:       uuid.MustParse(req.CategoryID),
		Type:             domain.TransactionType(req.Type),
		Amount:           req.Amount,
		TransactionDate:  txDate,
		TransactionTime:  txTime,
		Description:      req.Description,
		MerchantName:     req.MerchantName,
		MerchantLocation: req.MerchantLocation,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("transaction creation failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(txn))
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	filter, fields := parseTransactionFilter(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	details, err := h.ledger.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDetailDTO, len(details))
	for i := range details {
		dtos[i] = transactionDetailDTO{
			transactionDTO: toTransactionDTO(&details[i].Transaction),
			CategoryName:   details[i].CategoryName,
			CategoryType:   string(details[i].CategoryType),
			AccountName:    details[i].AccountName,
			AccountType:    string(details[i].AccountType),
		}
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, []FieldError) {
	q := r.URL.Query()
	var filter domain.TransactionFilter
	var errs []FieldError

	start, fields := parseOptionalDate(q.Get("startDate"), "startDate")
	errs = append(errs, fields...)
	filter.StartDate = start

	end, fields := parseOptionalDate(q.Get("endDate"), "endDate")
	errs = append(errs, fields...)
	filter.EndDate = end

	filter.Search = q.Get("search")

	if v := q.Get("accountId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			errs = append(errs, FieldError{Field: "accountId", Message: "must be a valid id"})
		} else {
			filter.AccountID = &id
		}
	}
	if v := q.Get("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			errs = append(errs, FieldError{Field: "categoryId", Message: "must be a valid id"})
		} else {
			filter.CategoryID = &id
		}
	}
	if v := q.Get("type"); v != "" {
		txType := domain.TransactionType(v)
		if !txType.IsValid() {
			errs = append(errs, FieldError{Field: "type", Message: "must be INCOME or EXPENSE"})
		} else {
			filter.Type = &txType
		}
	}

	limit, ok := parsePositiveInt(q.Get("limit"), 0)
	if !ok {
		errs = append(errs, FieldError{Field: "limit", Message: "must be a positive integer"})
	}
	filter.Limit = limit

	page, ok := parsePositiveInt(q.Get("page"), 0)
	if !ok {
		errs = append(errs, FieldError{Field: "page", Message: "must be a positive integer"})
	}
	filter.Page = page

	return filter, errs
}
