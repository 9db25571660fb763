package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Service exposes wallet reads and the paired balance/ledger writes. Every
// balance change locks the wallet row and appends a transaction in the same
// database transaction.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (*WalletDTO, error)
	Transactions(ctx context.Context, userID uuid.UUID, params pagination.Params) (*TransactionPage, error)
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*WalletDTO, error)
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*WalletDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx   txRunner
	repo Repository
}

// ServiceParams bundles the wallet service dependencies.
type ServiceParams struct {
	TxRunner   txRunner
	Repository Repository
}

// NewService constructs a wallet service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wallet repository required")
	}
	return &service{tx: params.TxRunner, repo: params.Repository}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*WalletDTO, error) {
	wallet, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wallet")
	}
	return FromModel(wallet), nil
}

func (s *service) Transactions(ctx context.Context, userID uuid.UUID, params pagination.Params) (*TransactionPage, error) {
	wallet, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wallet")
	}

	rows, err := s.repo.ListTransactions(ctx, wallet.ID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &TransactionPage{Items: make([]TransactionDTO, 0, len(rows))}
	for i, row := range rows {
		if i == limit {
			last := page.Items[len(page.Items)-1]
			page.NextCursor = pagination.Next(last.CreatedAt, last.ID)
			break
		}
		page.Items = append(page.Items, *TransactionFromModel(&row))
	}
	return page, nil
}

// Credit adds funds to the wallet and records an earnings entry.
func (s *service) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*WalletDTO, error) {
	return s.apply(ctx, userID, amount, description, enums.TransactionTypeEarnings)
}

// Debit removes funds from the wallet and records a withdrawal entry. The
// balance can never go negative.
func (s *service) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*WalletDTO, error) {
	return s.apply(ctx, userID, amount, description, enums.TransactionTypeWithdrawal)
}

func (s *service) apply(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, txnType enums.TransactionType) (*WalletDTO, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	var result *WalletDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		wallet, err := repo.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock wallet")
		}

		balance := wallet.Balance
		switch txnType {
		case enums.TransactionTypeEarnings:
			balance = balance.Add(amount)
		case enums.TransactionTypeWithdrawal:
			balance = balance.Sub(amount)
			if balance.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient balance")
			}
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
		}

		if err := repo.UpdateBalance(ctx, wallet.ID, balance); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update balance")
		}
		if err := repo.CreateTransaction(ctx, &models.Transaction{
			WalletID:    wallet.ID,
			Type:        txnType,
			Amount:      amount,
			Description: strings.TrimSpace(description),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
		}

		wallet.Balance = balance
		result = FromModel(wallet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
