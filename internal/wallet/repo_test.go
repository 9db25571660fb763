package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

func setupWalletTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	wallets := `
CREATE TABLE IF NOT EXISTS wallets (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  balance TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`
	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  wallet_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(wallets).Error)
	require.NoError(t, db.Exec(transactions).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM transactions")
		db.Exec("DELETE FROM wallets")
	})
	return db
}

func createTestWallet(t *testing.T, db *gorm.DB, userID uuid.UUID, balance decimal.Decimal) *models.Wallet {
	t.Helper()
	wallet := &models.Wallet{
		ID:      uuid.New(),
		UserID:  userID,
		Balance: balance,
	}
	require.NoError(t, db.Create(wallet).Error)
	return wallet
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, userID)
	require.NoError(t, err)
	assert.True(t, created.Balance.IsZero())

	found, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByUserID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateBalance(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	wallet := createTestWallet(t, db, uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, repo.UpdateBalance(ctx, wallet.ID, decimal.NewFromInt(250)))

	found, err := repo.FindByUserID(ctx, wallet.UserID)
	require.NoError(t, err)
	assert.True(t, found.Balance.Equal(decimal.NewFromInt(250)))
}

func TestRepositoryListTransactionsPagination(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	wallet := createTestWallet(t, db, uuid.New(), decimal.NewFromInt(500))
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		txn := &models.Transaction{
			ID:          uuid.New(),
			WalletID:    wallet.ID,
			Type:        enums.TransactionTypeEarnings,
			Amount:      decimal.NewFromInt(int64(10 + i)),
			Description: "statement credit",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.CreateTransaction(ctx, txn))
	}

	firstPage, err := repo.ListTransactions(ctx, wallet.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 3) // limit plus buffer row
	assert.True(t, firstPage[0].CreatedAt.After(firstPage[1].CreatedAt))

	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: firstPage[1].CreatedAt,
		ID:        firstPage[1].ID,
	})
	secondPage, err := repo.ListTransactions(ctx, wallet.ID, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.NotEmpty(t, secondPage)
	for _, txn := range secondPage {
		assert.True(t, txn.CreatedAt.Before(firstPage[1].CreatedAt))
	}
}
