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

type categoryService interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
	CreateCategory(ctx context.Context, userID uuid.UUID, name string, categoryType domain.TransactionType) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, name string, categoryType domain.TransactionType) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

type CategoryHandler struct {
	categories categoryService
}

func NewCategoryHandler(categories categoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r categoryRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	} else if !domain.TransactionType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be INCOME or EXPENSE"})
	}
	return errs
}

type categoryDTO struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	CreatedAt time.Time  `json:"created_at"`
}

func toCategoryDTO(c *domain.Category) categoryDTO {
	return categoryDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list categories", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]categoryDTO, len(categories))
	for i := range categories {
		dtos[i] = toCategoryDTO(&categories[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), userID, req.Name, domain.TransactionType(req.Type))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create category", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toCategoryDTO(category))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	categoryID, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), userID, categoryID, req.Name, domain.TransactionType(req.Type))
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to update category", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toCategoryDTO(category))
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	categoryID, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		logging.FromContext(r.Context()).Warn("failed to delete category", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}
