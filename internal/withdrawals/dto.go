package withdrawals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// WithdrawalDTO is the outward representation of a payout request.
type WithdrawalDTO struct {
	ID                uuid.UUID           `json:"id"`
	UserID            uuid.UUID           `json:"user_id"`
	Amount            decimal.Decimal     `json:"amount"`
	UPIID             *string             `json:"upi_id,omitempty"`
	AccountHolderName *string             `json:"account_holder_name,omitempty"`
	AccountNumber     *string             `json:"account_number,omitempty"`
	IFSCCode          *string             `json:"ifsc_code,omitempty"`
	Status            enums.RequestStatus `json:"status"`
	Notes             *string             `json:"notes,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// FromModel maps a persisted withdrawal request onto its DTO.
func FromModel(request *models.WithdrawalRequest) *WithdrawalDTO {
	if request == nil {
		return nil
	}
	return &WithdrawalDTO{
		ID:                request.ID,
		UserID:            request.UserID,
		Amount:            request.Amount,
		UPIID:             request.UPIID,
		AccountHolderName: request.AccountHolderName,
		AccountNumber:     request.AccountNumber,
		IFSCCode:          request.IFSCCode,
		Status:            request.Status,
		Notes:             request.Notes,
		CreatedAt:         request.CreatedAt,
		UpdatedAt:         request.UpdatedAt,
	}
}

// CreateWithdrawalRequest is the customer payload for asking for a payout.
// Exactly one destination must be supplied: a UPI id, or the full bank tuple.
type CreateWithdrawalRequest struct {
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	UPIID             *string         `json:"upi_id,omitempty" validate:"omitempty,min=3,max=100"`
	AccountHolderName *string         `json:"account_holder_name,omitempty" validate:"omitempty,min=1,max=120"`
	AccountNumber     *string         `json:"account_number,omitempty" validate:"omitempty,min=6,max=24"`
	IFSCCode          *string         `json:"ifsc_code,omitempty" validate:"omitempty,len=11"`
}

// UpdateStatusRequest is the admin payload for progressing a payout.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListFilter narrows withdrawal listings.
type ListFilter struct {
	Status *enums.RequestStatus
}

// WithdrawalPage is a cursor page of payout requests.
type WithdrawalPage struct {
	Items      []WithdrawalDTO `json:"items"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

// hasUPI reports whether the UPI destination is populated.
func (r CreateWithdrawalRequest) hasUPI() bool {
	return r.UPIID != nil && *r.UPIID != ""
}

// hasBankTuple reports whether every bank destination field is populated.
func (r CreateWithdrawalRequest) hasBankTuple() bool {
	return r.AccountHolderName != nil && *r.AccountHolderName != "" &&
		r.AccountNumber != nil && *r.AccountNumber != "" &&
		r.IFSCCode != nil && *r.IFSCCode != ""
}

// hasAnyBankField reports whether the bank tuple is partially populated.
func (r CreateWithdrawalRequest) hasAnyBankField() bool {
	return (r.AccountHolderName != nil && *r.AccountHolderName != "") ||
		(r.AccountNumber != nil && *r.AccountNumber != "") ||
		(r.IFSCCode != nil && *r.IFSCCode != "")
}
