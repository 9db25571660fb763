package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// Transaction is an append-only ledger entry paired with a wallet write.
type Transaction struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WalletID    uuid.UUID             `gorm:"column:wallet_id;type:uuid;not null;index"`
	Type        enums.TransactionType `gorm:"column:type;type:transaction_type;not null"`
	Amount      decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	Description string                `gorm:"column:description;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
