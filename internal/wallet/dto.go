package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// WalletDTO is the outward representation of a wallet balance.
type WalletDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FromModel maps a persisted wallet onto its DTO.
func FromModel(wallet *models.Wallet) *WalletDTO {
	if wallet == nil {
		return nil
	}
	return &WalletDTO{
		ID:        wallet.ID,
		UserID:    wallet.UserID,
		Balance:   wallet.Balance,
		UpdatedAt: wallet.UpdatedAt,
	}
}

// TransactionDTO is a single ledger entry.
type TransactionDTO struct {
	ID          uuid.UUID             `json:"id"`
	WalletID    uuid.UUID             `json:"wallet_id"`
	Type        enums.TransactionType `json:"type"`
	Amount      decimal.Decimal       `json:"amount"`
	Description string                `json:"description"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TransactionFromModel maps a persisted transaction onto its DTO.
func TransactionFromModel(txn *models.Transaction) *TransactionDTO {
	if txn == nil {
		return nil
	}
	return &TransactionDTO{
		ID:          txn.ID,
		WalletID:    txn.WalletID,
		Type:        txn.Type,
		Amount:      txn.Amount,
		Description: txn.Description,
		CreatedAt:   txn.CreatedAt,
	}
}

// TransactionPage is a cursor page of ledger entries.
type TransactionPage struct {
	Items      []TransactionDTO `json:"items"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}
