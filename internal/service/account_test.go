package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetapp/dompet-api/internal/domain"
	"github.com/dompetapp/dompet-api/internal/repository"
	"github.com/dompetapp/dompet-api/internal/service"
	"github.com/dompetapp/dompet-api/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAccountService(repository.NewAccountRepository(db))
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")

	account, err := svc.CreateAccount(ctx, user.ID, "Daily", domain.AccountTypeCash, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), account.Balance)
	assert.Equal(t, int64(1), account.Version)
	assert.Equal(t, int64(5000), testutil.GetAccountBalance(t, db, account.ID))

	_, err = svc.CreateAccount(ctx, user.ID, "Negative", domain.AccountTypeCash, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidBalance)

	_, err = svc.CreateAccount(ctx, user.ID, "Bad", "CREDIT", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAccountType)
}

func TestListAccounts_ScopedAndCounted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAccountService(repository.NewAccountRepository(db))
	ctx := context.Background()

	alice := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	bob := testutil.SeedTestUser(t, db, "bob@test.com", "Bob")
	testutil.SeedTestAccount(t, db, alice.ID, "Wallet", domain.AccountTypeCash, 100)
	testutil.SeedTestAccount(t, db, bob.ID, "Other", domain.AccountTypeBank, 200)

	accounts, err := svc.ListAccounts(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Wallet", accounts[0].Name)
	assert.Equal(t, int64(0), accounts[0].TransactionCount)
}

func TestUpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAccountService(repository.NewAccountRepository(db))
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "user@test.com", "User")
	stranger := testutil.SeedTestUser(t, db, "stranger@test.com", "Stranger")
	account := testutil.SeedTestAccount(t, db, user.ID, "Wallet", domain.AccountTypeCash, 100)

	name := "Renamed"
	updated, err := svc.UpdateAccount(ctx, user.ID, account.ID, domain.UpdateAccountParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, int64(100), updated.Balance, "unset fields stay unchanged")
	assert.Equal(t, account.Version+1, updated.Version)

	balance := int64(999)
	corrected, err := svc.UpdateAccount(ctx, user.ID, account.ID, domain.UpdateAccountParams{Balance: &balance})
	require.NoError(t, err)
	assert.Equal(t, int64(999), corrected.Balance)

	_, err = svc.UpdateAccount(ctx, stranger.ID, account.ID, domain.UpdateAccountParams{Name: &name})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	negative := int64(-5)
	_, err = svc.UpdateAccount(ctx, user.ID, account.ID, domain.UpdateAccountParams{Balance: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidBalance)
}
