package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// WithdrawalRequest records a payout ask. Exactly one destination is set:
// a UPI id or the full bank tuple.
type WithdrawalRequest struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Amount            decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	UPIID             *string             `gorm:"column:upi_id"`
	AccountHolderName *string             `gorm:"column:account_holder_name"`
	AccountNumber     *string             `gorm:"column:account_number"`
	IFSCCode          *string             `gorm:"column:ifsc_code"`
	Status            enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	Notes             *string             `gorm:"column:notes"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
