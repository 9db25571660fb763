package withdrawals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/internal/wallet"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// requestTransitions is the payout pipeline. Rejected and completed are
// terminal; completed is the only state that moves money.
var requestTransitions = map[enums.RequestStatus][]enums.RequestStatus{
	enums.RequestStatusPending:   {enums.RequestStatusInProcess, enums.RequestStatusApproved, enums.RequestStatusRejected},
	enums.RequestStatusInProcess: {enums.RequestStatusApproved, enums.RequestStatusRejected},
	enums.RequestStatusApproved:  {enums.RequestStatusCompleted, enums.RequestStatusRejected},
}

func canTransition(from, to enums.RequestStatus) bool {
	for _, candidate := range requestTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Service exposes the customer payout flow and the admin decision pipeline.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateWithdrawalRequest) (*WithdrawalDTO, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*WithdrawalPage, error)

	AdminList(ctx context.Context, filter ListFilter, params pagination.Params) (*WithdrawalPage, error)
	AdminUpdateStatus(ctx context.Context, requestID uuid.UUID, req UpdateStatusRequest) (*WithdrawalDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the withdrawal service dependencies.
type ServiceParams struct {
	TxRunner   txRunner
	Repository Repository
	Wallets    wallet.Repository
	Payout     config.PayoutConfig
}

type service struct {
	tx        txRunner
	repo      Repository
	wallets   wallet.Repository
	payoutCfg config.PayoutConfig
}

// NewService constructs the withdrawal service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("withdrawal repository required")
	}
	if params.Wallets == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{
		tx:        params.TxRunner,
		repo:      params.Repository,
		wallets:   params.Wallets,
		payoutCfg: params.Payout,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateWithdrawalRequest) (*WithdrawalDTO, error) {
	if req.Amount.LessThan(s.payoutCfg.MinWithdrawalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("minimum withdrawal amount is %s", s.payoutCfg.MinWithdrawalAmount))
	}

	switch {
	case req.hasUPI() && req.hasAnyBankField():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provide either a UPI id or bank details, not both")
	case req.hasUPI():
	case req.hasBankTuple():
	case req.hasAnyBankField():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "incomplete bank details")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a payout destination is required")
	}

	ownWallet, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wallet")
	}
	if req.Amount.GreaterThan(ownWallet.Balance) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "amount exceeds wallet balance")
	}

	request := &models.WithdrawalRequest{
		UserID:            userID,
		Amount:            req.Amount,
		UPIID:             req.UPIID,
		AccountHolderName: req.AccountHolderName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
		Status:            enums.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create withdrawal request")
	}
	return FromModel(request), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*WithdrawalPage, error) {
	rows, err := s.repo.ListByUserID(ctx, userID, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list withdrawal requests")
	}
	return buildPage(rows, params), nil
}

func (s *service) AdminList(ctx context.Context, filter ListFilter, params pagination.Params) (*WithdrawalPage, error) {
	rows, err := s.repo.ListAll(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list withdrawal requests")
	}
	return buildPage(rows, params), nil
}

// AdminUpdateStatus progresses a payout request. Completing a request locks
// the wallet, checks funds, debits the balance and appends the ledger entry
// in the same transaction as the status write.
func (s *service) AdminUpdateStatus(ctx context.Context, requestID uuid.UUID, req UpdateStatusRequest) (*WithdrawalDTO, error) {
	next, err := enums.ParseRequestStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}

	var result *WithdrawalDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		wallets := s.wallets.WithTx(tx)

		request, err := repo.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load withdrawal request")
		}
		if !canTransition(request.Status, next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition")
		}

		if next == enums.RequestStatusCompleted {
			ownWallet, err := wallets.FindByUserIDForUpdate(ctx, request.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock wallet")
			}

			balance := ownWallet.Balance.Sub(request.Amount)
			if balance.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient balance")
			}
			if err := wallets.UpdateBalance(ctx, ownWallet.ID, balance); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update balance")
			}
			if err := wallets.CreateTransaction(ctx, &models.Transaction{
				WalletID:    ownWallet.ID,
				Type:        enums.TransactionTypeWithdrawal,
				Amount:      request.Amount,
				Description: fmt.Sprintf("withdrawal %s paid out", request.ID),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
			}
		}

		updates := map[string]any{"status": next}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		// The guard on the previous status rolls back the debit above when a
		// concurrent decision already moved the request.
		updated, err := repo.UpdateFromStatus(ctx, requestID, request.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update withdrawal status")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "withdrawal request was updated concurrently")
		}

		request.Status = next
		if req.Notes != nil {
			request.Notes = req.Notes
		}
		result = FromModel(request)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func buildPage(rows []models.WithdrawalRequest, params pagination.Params) *WithdrawalPage {
	limit := pagination.NormalizeLimit(params.Limit)
	page := &WithdrawalPage{Items: make([]WithdrawalDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := page.Items[len(page.Items)-1]
			page.NextCursor = pagination.Next(last.CreatedAt, last.ID)
			break
		}
		page.Items = append(page.Items, *FromModel(&rows[i]))
	}
	return page
}
