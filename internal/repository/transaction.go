package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
)

const transactionColumns = `t.id, t.account_id, t.category_id, t.tx_type, t.amount,
	t.transaction_date, t.transaction_time, t.description, t.merchant_name,
	t.merchant_location, t.initial_balance, t.final_balance, t.created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts the ledger row. It only ever runs inside the atomic
// unit that also updates the account balance.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, account_id, category_id, tx_type, amount,
			transaction_date, transaction_time, description, merchant_name,
			merchant_location, initial_balance, final_balance, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		txn.ID, txn.AccountID, txn.CategoryID, txn.Type, txn.Amount,
		txn.TransactionDate, txn.TransactionTime, txn.Description, txn.MerchantName,
		txn.MerchantLocation, txn.InitialBalance, txn.FinalBalance, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// List returns the filtered page of the user's transactions joined
// with category and account, transaction_date descending. The join on
// accounts.user_id scopes results to accounts the caller owns.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var conds []string
	if filter.StartDate != nil {
		conds = append(conds, "t.transaction_date >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conds = append(conds, "t.transaction_date <= "+arg(*filter.EndDate))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, "(t.description ILIKE "+p+
			" OR t.merchant_name ILIKE "+p+
			" OR t.merchant_location ILIKE "+p+")")
	}
	if filter.AccountID != nil {
		conds = append(conds, "t.account_id = "+arg(*filter.AccountID))
	}
	if filter.CategoryID != nil {
		conds = append(conds, "t.category_id = "+arg(*filter.CategoryID))
	}
	if filter.Type != nil {
		conds = append(conds, "t.tx_type = "+arg(*filter.Type))
	}

	query := `SELECT ` + transactionColumns + `,
		c.name, c.category_type, a.name, a.account_type
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id AND a.user_id = $1
		JOIN categories c ON c.id = t.category_id`
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY t.transaction_date DESC, t.created_at DESC"
	query += "\n\t\tLIMIT " + arg(filter.Limit) + " OFFSET " + arg((filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var details []domain.TransactionDetail
	for rows.Next() {
		var d domain.TransactionDetail
		err := rows.Scan(
			&d.ID, &d.AccountID, &d.CategoryID, &d.Type, &d.Amount,
			&d.TransactionDate, &d.TransactionTime, &d.Description, &d.MerchantName,
			&d.MerchantLocation, &d.InitialBalance, &d.FinalBalance, &d.CreatedAt,
			&d.CategoryName, &d.CategoryType, &d.AccountName, &d.AccountType,
		)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return details, nil
}

// SumByType totals the amounts of one transaction type across the
// user's accounts, optionally bounded by an inclusive date range.
func (r *TransactionRepository) SumByType(ctx context.Context, userID uuid.UUID, txType domain.TransactionType, start, end *time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id AND a.user_id = $1
		WHERE t.tx_type = $2`
	args := []any{userID, txType}

	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND t.transaction_date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND t.transaction_date <= $%d", len(args))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("SumByType: %w", err)
	}
	return total, nil
}

// SumByCategory groups the user's transactions by category. Categories
// whose name cannot be resolved fall back to "Uncategorized".
func (r *TransactionRepository) SumByCategory(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]domain.CategoryTotal, error) {
	query := `SELECT COALESCE(c.name, 'Uncategorized'), SUM(t.amount)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id AND a.user_id = $1
		LEFT JOIN categories c ON c.id = t.category_id`
	args := []any{userID}

	var conds []string
	if start != nil {
		args = append(args, *start)
		conds = append(conds, fmt.Sprintf("t.transaction_date >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		conds = append(conds, fmt.Sprintf("t.transaction_date <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tGROUP BY t.category_id, c.name\n\t\tORDER BY SUM(t.amount) DESC, COALESCE(c.name, 'Uncategorized') ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SumByCategory: %w", err)
	}
	defer rows.Close()

	var totals []domain.CategoryTotal
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("SumByCategory: scan: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SumByCategory: rows: %w", err)
	}
	return totals, nil
}
