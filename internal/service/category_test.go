package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/repository"
	"github.com/dompetapp/dompet-api/internal/service"
	"github.com/dompetapp/dompet-api/internal/service/ledger"
	"github.com/dompetapp/dompet-api/internal/testutil"
)

func TestListCategories_VisibleSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewCategoryService(repository.NewCategoryRepository(db), db)
	ctx := context.Background()

	alice := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	bob := testutil.SeedTestUser(t, db, "bob@test.com", "Bob")
	own := testutil.SeedTestCategory(t, db, alice.ID, "Aquarium", domain.TransactionTypeExpense)
	testutil.SeedTestCategory(t, db, bob.ID, "Bowling", domain.TransactionTypeExpense)

	categories, err := svc.ListCategories(ctx, alice.ID)
	require.NoError(t, err)

	// 10 seeded defaults plus Alice's own; Bob's stays invisible.
	require.Len(t, categories, 11)
	assert.Equal(t, own.ID, categories[0].ID, "name-ascending puts Aquarium first")
	for _, c := range categories {
		assert.NotEqual(t, "Bowling", c.Name)
	}
}

func TestCreateAndUpdateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewCategoryService(repository.NewCategoryRepository(db), db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")

	created, err := svc.CreateCategory(ctx, user.ID, "Subscriptions", domain.TransactionTypeExpense)
	require.NoError(t, err)
	require.NotNil(t, created.UserID)
	assert.Equal(t, user.ID, *created.UserID)

	updated, err := svc.UpdateCategory(ctx, user.ID, created.ID, "Streaming", domain.TransactionTypeExpense)
	require.NoError(t, err)
	assert.Equal(t, "Streaming", updated.Name)

	_, err = svc.CreateCategory(ctx, user.ID, "Broken", "TRANSFER")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)
}

func TestUpdateCategory_SystemDefaultIsNotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewCategoryService(repository.NewCategoryRepository(db), db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")

	_, err := svc.UpdateCategory(ctx, user.ID, testutil.DefaultCategoryFoodID, "Groceries", domain.TransactionTypeExpense)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	err = svc.DeleteCategory(ctx, user.ID, testutil.DefaultCategoryFoodID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestDeleteCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	categorySvc := service.NewCategoryService(repository.NewCategoryRepository(db), db)
	ledgerSvc := ledger.NewService(
		repository.NewAccountRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewTransactionRepository(db),
		db,
	)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 1000)
	unused := testutil.SeedTestCategory(t, db, user.ID, "Unused", domain.TransactionTypeExpense)
	inUse := testutil.SeedTestCategory(t, db, user.ID, "InUse", domain.TransactionTypeExpense)

	_, err := ledgerSvc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		UserID:          user.ID,
		AccountID:       account.ID,
		CategoryID:      inUse.ID,
		Type:            domain.TransactionTypeExpense,
		Amount:          100,
		TransactionDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	err = categorySvc.DeleteCategory(ctx, user.ID, inUse.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)

	require.NoError(t, categorySvc.DeleteCategory(ctx, user.ID, unused.ID))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM categories WHERE id = $1`, unused.ID).Scan(&count))
	assert.Equal(t, 0, count)
}
