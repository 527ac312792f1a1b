package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dompetapp/dompet-api/internal/domain"
)

const accountColumns = `id, user_id, name, account_type, balance, version, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// List returns the user's accounts newest-first, each annotated with
// the number of transactions recorded against it.
func (r *AccountRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+`,
			(SELECT COUNT(*) FROM transactions t WHERE t.account_id = accounts.id) AS transaction_count
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Version,
			&a.CreatedAt, &a.UpdatedAt, &a.TransactionCount,
		)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, account_type, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		account.ID, account.UserID, account.Name, account.Type,
		account.Balance, account.Version, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetOwned resolves an account by id scoped to its owner. Absent and
// foreign accounts are indistinguishable to the caller.
func (r *AccountRepository) GetOwned(ctx context.Context, userID, accountID uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 AND user_id = $2`,
		accountID, userID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetOwned: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetOwned: %w", err)
	}
	return a, nil
}

// Update applies the administrative partial update. A direct balance
// edit through this path bumps the version so in-flight ledger commits
// against the stale balance fail their compare-and-swap.
func (r *AccountRepository) Update(ctx context.Context, userID, accountID uuid.UUID, params domain.UpdateAccountParams) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE accounts
		SET name = COALESCE($3, name),
			account_type = COALESCE($4, account_type),
			balance = COALESCE($5, balance),
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+accountColumns,
		accountID, userID, params.Name, (*string)(params.Type), params.Balance,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Update: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("Update: %w", err)
	}
	return a, nil
}

// GetForUpdate locks the account row for the duration of the enclosing
// transaction. The balance it returns is the authoritative
// initial_balance for a ledger commit.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

// UpdateBalance writes the new balance guarded by the version read
// when the row was locked. A zero row count means another writer got
// there first.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, newBalance, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, version = $2, updated_at = now()
		WHERE id = $3 AND version = $4`,
		newBalance, newVersion, accountID, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

// SumBalances returns the live total across the user's accounts.
func (r *AccountRepository) SumBalances(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("SumBalances: %w", err)
	}
	return total, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Version,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
