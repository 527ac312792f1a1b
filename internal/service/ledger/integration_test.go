package ledger_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/repository"
	"github.com/dompetapp/dompet-api/internal/service/ledger"
	"github.com/dompetapp/dompet-api/internal/testutil"
)

func setupLedgerService(t *testing.T, db *sql.DB) *ledger.Service {
	t.Helper()
	return ledger.NewService(
		repository.NewAccountRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewTransactionRepository(db),
		db,
	)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateTransaction_BalanceChain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "chain@test.com", "Chain")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 1000)

	expense, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategoryFoodID,
		Type:            domain.TransactionTypeExpense,
		Amount:          200,
		TransactionDate: date(2025, 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), expense.InitialBalance)
	assert.Equal(t, int64(800), expense.FinalBalance)
	assert.Equal(t, int64(800), testutil.GetAccountBalance(t, db, account.ID))

	income, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategorySalaryID,
		Type:            domain.TransactionTypeIncome,
		Amount:          500,
		TransactionDate: date(2025, 3, 11),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(800), income.InitialBalance)
	assert.Equal(t, int64(1300), income.FinalBalance)
	assert.Equal(t, int64(1300), testutil.GetAccountBalance(t, db, account.ID))

	// Two commits, two version bumps.
	assert.Equal(t, int64(3), testutil.GetAccountVersion(t, db, account.ID))
	assert.Equal(t, 2, testutil.CountTransactions(t, db, account.ID))
}

func TestCreateTransaction_DefaultsTimeToCommitClock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "time@test.com", "Time")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 0)

	txn, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategorySalaryID,
		Type:            domain.TransactionTypeIncome,
		Amount:          100,
		TransactionDate: date(2025, 3, 10),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}$`, txn.TransactionTime)

	explicit, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategorySalaryID,
		Type:            domain.TransactionTypeIncome,
		Amount:          100,
		TransactionDate: date(2025, 3, 10),
		TransactionTime: "09:30:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", explicit.TransactionTime)
}

func TestCreateTransaction_CategoryTypeMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "mismatch@test.com", "Mismatch")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 1000)

	_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategorySalaryID,
		Type:            domain.TransactionTypeExpense,
		Amount:          200,
		TransactionDate: date(2025, 3, 10),
	})
	require.ErrorIs(t, err, domain.ErrCategoryTypeMismatch)
	assert.Equal(t, int64(1000), testutil.GetAccountBalance(t, db, account.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, account.ID))
}

func TestCreateTransaction_ForeignAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner")
	intruder := testutil.SeedTestUser(t, db, "intruder@test.com", "Intruder")
	account := testutil.SeedTestAccount(t, db, owner.ID, "Wallet", domain.AccountTypeBank, 1000)

	_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          intruder.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategoryFoodID,
		Type:            domain.TransactionTypeExpense,
		Amount:          200,
		TransactionDate: date(2025, 3, 10),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, int64(1000), testutil.GetAccountBalance(t, db, account.ID))
}

func TestCreateTransaction_ForeignCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "catowner@test.com", "CatOwner")
	user := testutil.SeedTestUser(t, db, "catuser@test.com", "CatUser")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 1000)
	foreign := testutil.SeedTestCategory(t, db, owner.ID, "Private", domain.TransactionTypeExpense)

	_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      foreign.ID,
		Type:            domain.TransactionTypeExpense,
		Amount:          200,
		TransactionDate: date(2025, 3, 10),
	})
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
	assert.Equal(t, int64(1000), testutil.GetAccountBalance(t, db, account.ID))
}

func TestCreateTransaction_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "concurrent@test.com", "Concurrent")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeBank, 10000)

	const workers = 20

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
				UserID:          user.ID,
				AccountID:       account.ID,
				CategoryID:      testutil.DefaultCategoryFoodID,
				Type:            domain.TransactionTypeExpense,
				Amount:          100,
				TransactionDate: date(2025, 3, 10),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(10000-workers*100), testutil.GetAccountBalance(t, db, account.ID))
	assert.Equal(t, workers, testutil.CountTransactions(t, db, account.ID))

	// Every ledger row must sit on an unbroken balance chain: each
	// snapshot pair differs by exactly the signed amount, and no two
	// rows share an initial balance.
	rows, err := db.Query(
		`SELECT initial_balance, final_balance FROM transactions
		 WHERE account_id = $1 ORDER BY initial_balance DESC`,
		account.ID,
	)
	require.NoError(t, err)
	defer rows.Close()

	expectedInitial := int64(10000)
	for rows.Next() {
		var initial, final int64
		require.NoError(t, rows.Scan(&initial, &final))
		assert.Equal(t, expectedInitial, initial)
		assert.Equal(t, initial-100, final)
		expectedInitial -= 100
	}
	require.NoError(t, rows.Err())
}

func TestListTransactions_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "page@test.com", "Page")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 100000)

	for i := range 15 {
		_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
			UserID:          user.ID,
			AccountID:       account.ID,
			CategoryID:      testutil.DefaultCategoryFoodID,
			Type:            domain.TransactionTypeExpense,
			Amount:          100,
			TransactionDate: date(2025, 3, 1+i),
			Description:     fmt.Sprintf("purchase %d", i+1),
		})
		require.NoError(t, err)
	}

	// Default page size is 10, newest date first.
	page1, err := svc.ListTransactions(ctx, user.ID, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, page1, 10)
	assert.Equal(t, "2025-03-15", page1[0].TransactionDate.Format("2006-01-02"))
	assert.Equal(t, "2025-03-06", page1[9].TransactionDate.Format("2006-01-02"))

	page2, err := svc.ListTransactions(ctx, user.ID, domain.TransactionFilter{Page: 2})
	require.NoError(t, err)
	require.Len(t, page2, 5)
	assert.Equal(t, "2025-03-05", page2[0].TransactionDate.Format("2006-01-02"))

	page3, err := svc.ListTransactions(ctx, user.ID, domain.TransactionFilter{Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page3)
}

func TestListTransactions_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "filter@test.com", "Filter")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 100000)

	coffee := "Blue Bottle"
	_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategoryFoodID,
		Type:            domain.TransactionTypeExpense,
		Amount:          450,
		TransactionDate: date(2025, 3, 10),
		Description:     "morning coffee",
		MerchantName:    &coffee,
	})
	require.NoError(t, err)

	_, err = svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      testutil.DefaultCategorySalaryID,
		Type:            domain.TransactionTypeIncome,
		Amount:          500000,
		TransactionDate: date(2025, 3, 25),
		Description:     "march salary",
	})
	require.NoError(t, err)

	// Case-insensitive search across description and merchant fields.
	found, err := svc.ListTransactions(ctx, user.ID, domain.TransactionFilter{Search: "BLUE bottle"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "morning coffee", found[0].Description)
	assert.Equal(t, "Food", found[0].CategoryName)
	assert.Equal(t, "Wallet", found[0].AccountName)

	income := domain.TransactionTypeIncome
	byType, err := svc.ListTransactions(ctx, user.ID, domain.TransactionFilter{Type: &income})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "march salary", byType[0].Description)

	start := date(2025, 3, 20)
	end := date(2025, 3, 31)
	byDate, err := svc.ListTransactions(ctx, user.ID, domain.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "march salary", byDate[0].Description)
}

func TestListTransactions_ScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	alice := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	bob := testutil.SeedTestUser(t, db, "bob@test.com", "Bob")
	aliceAcct := testutil.SeedTestAccount(t, db, alice.ID, "Wallet", domain.AccountTypeCash, 1000)

	_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          alice.ID,
		AccountID:       aliceAcct.ID,
		CategoryID:      testutil.DefaultCategoryFoodID,
		Type:            domain.TransactionTypeExpense,
		Amount:          100,
		TransactionDate: date(2025, 3, 10),
	})
	require.NoError(t, err)

	own, err := svc.ListTransactions(ctx, alice.ID, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	foreign, err := svc.ListTransactions(ctx, bob.ID, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "summary@test.com", "Summary")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeBank, 10000)
	testutil.SeedTestAccount(t, db, user.ID, "Savings", domain.AccountTypeBank, 5000)

	seed := []struct {
		categoryID uuid.UUID
		txType     domain.TransactionType
		amount     int64
		day        int
	}{
		{testutil.DefaultCategorySalaryID, domain.TransactionTypeIncome, 5000, 1},
		{testutil.DefaultCategoryFoodID, domain.TransactionTypeExpense, 1200, 5},
		{testutil.DefaultCategoryFoodID, domain.TransactionTypeExpense, 800, 12},
		{testutil.DefaultCategoryShoppingID, domain.TransactionTypeExpense, 300, 20},
	}
	for _, s := range seed {
		_, err := svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
			UserID:          user.ID,
			AccountID:       account.ID,
			CategoryID:      s.categoryID,
			Type:            s.txType,
			Amount:          s.amount,
			TransactionDate: date(2025, 4, s.day),
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, user.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), summary.TotalIncome)
	assert.Equal(t, int64(2300), summary.TotalExpense)
	// 10000 + 5000 - 2300 across the first account, plus the untouched one.
	assert.Equal(t, int64(12700+5000), summary.TotalBalance)
	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, domain.CategoryTotal{Category: "Salary", Total: 5000}, summary.ByCategory[0])
	assert.Equal(t, domain.CategoryTotal{Category: "Food", Total: 2000}, summary.ByCategory[1])
	assert.Equal(t, domain.CategoryTotal{Category: "Shopping", Total: 300}, summary.ByCategory[2])

	// Both bounds narrow the aggregates; the balance stays live.
	start, end := date(2025, 4, 10), date(2025, 4, 30)
	ranged, err := svc.Summary(ctx, user.ID, &start, &end)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ranged.TotalIncome)
	assert.Equal(t, int64(1100), ranged.TotalExpense)
	assert.Equal(t, int64(12700+5000), ranged.TotalBalance)

	// A single bound is ignored entirely.
	half, err := svc.Summary(ctx, user.ID, &start, nil)
	require.NoError(t, err)
	assert.Equal(t, summary.TotalIncome, half.TotalIncome)
	assert.Equal(t, summary.TotalExpense, half.TotalExpense)
}
