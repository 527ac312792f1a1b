package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/logging"
)

type accountService interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, name string, accountType domain.AccountType, balance int64) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, params domain.UpdateAccountParams) (*domain.Account, error)
}

type summaryService interface {
	Summary(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*domain.Summary, error)
}

type AccountHandler struct {
	accounts accountService
	summary  summaryService
}

func NewAccountHandler(accounts accountService, summary summaryService) *AccountHandler {
	return &AccountHandler{accounts: accounts, summary: summary}
}

type createAccountRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance int64  `json:"balance"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	} else if !domain.AccountType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be CASH, BANK, E_WALLET, INVESTMENT, or OTHER"})
	}
	if r.Balance < 0 {
		errs = append(errs, FieldError{Field: "balance", Message: "must be greater than or equal to 0"})
	}
	return errs
}

type updateAccountRequest struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	Balance *int64  `json:"balance"`
}

func (r updateAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name != nil && *r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if r.Type != nil && !domain.AccountType(*r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be CASH, BANK, E_WALLET, INVESTMENT, or OTHER"})
	}
	if r.Balance != nil && *r.Balance < 0 {
		errs = append(errs, FieldError{Field: "balance", Message: "must be greater than or equal to 0"})
	}
	return errs
}

type accountDTO struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	Balance           int64     `json:"balance"`
	TotalTransactions int64     `json:"total_transactions"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:                a.ID,
		UserID:            a.UserID,
		Name:              a.Name,
		Type:              string(a.Type),
		Balance:           a.Balance,
		TotalTransactions: a.TransactionCount,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), userID, req.Name, domain.AccountType(req.Type), req.Balance)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	accountID, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.UpdateAccount(r.Context(), userID, accountID, domain.UpdateAccountParams{
		Name:    req.Name,
		Type:    (*domain.AccountType)(req.Type),
		Balance: req.Balance,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to update account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

type summaryDTO struct {
	TotalIncome  int64              `json:"total_income"`
	TotalExpense int64              `json:"total_expense"`
	TotalBalance int64              `json:"total_balance"`
	ByCategory   []categoryTotalDTO `json:"by_category"`
}

type categoryTotalDTO struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

func (h *AccountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	start, fields := parseOptionalDate(r.URL.Query().Get("startDate"), "startDate")
	end, endFields := parseOptionalDate(r.URL.Query().Get("endDate"), "endDate")
	fields = append(fields, endFields...)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	summary, err := h.summary.Summary(r.Context(), userID, start, end)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build summary", "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := summaryDTO{
		TotalIncome:  summary.TotalIncome,
		TotalExpense: summary.TotalExpense,
		TotalBalance: summary.TotalBalance,
		ByCategory:   make([]categoryTotalDTO, 0, len(summary.ByCategory)),
	}
	for _, ct := range summary.ByCategory {
		dto.ByCategory = append(dto.ByCategory, categoryTotalDTO{Category: ct.Category, Total: ct.Total})
	}

	RespondSuccess(w, http.StatusOK, dto)
}
