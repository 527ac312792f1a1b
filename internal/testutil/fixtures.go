package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dompetapp/dompet-api/internal/domain"
)

// Default categories seeded by the migrations (user_id IS NULL).
var (
	DefaultCategoryShoppingID = uuid.MustParse("c0000000-0000-4000-8000-000000000001")
	DefaultCategoryFoodID     = uuid.MustParse("c0000000-0000-4000-8000-000000000004")
	DefaultCategorySalaryID   = uuid.MustParse("c0000000-0000-4000-8000-000000000011")
	DefaultCategoryGiftID     = uuid.MustParse("c0000000-0000-4000-8000-000000000014")
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID uuid.UUID, name string, accountType domain.AccountType, balance int64) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      accountType,
		Balance:   balance,
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, name, account_type, balance, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		a.ID, a.UserID, a.Name, a.Type, a.Balance, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test account %s/%s: %v", userID, name, err)
	}
	return a
}

func SeedTestCategory(t *testing.T, db *sql.DB, userID uuid.UUID, name string, categoryType domain.TransactionType) *domain.Category {
	t.Helper()

	c := &domain.Category{
		ID:        uuid.New(),
		UserID:    &userID,
		Name:      name,
		Type:      categoryType,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO categories (id, user_id, name, category_type, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.Name, c.Type, c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test category %s: %v", name, err)
	}
	return c
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func GetAccountVersion(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var version int64
	err := db.QueryRow(`SELECT version FROM accounts WHERE id = $1`, accountID).Scan(&version)
	if err != nil {
		t.Fatalf("get account version %s: %v", accountID, err)
	}
	return version
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for account %s: %v", accountID, err)
	}
	return count
}
