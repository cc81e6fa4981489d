package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// TransactionHistoryLimit caps the wallet history listing.
const TransactionHistoryLimit = 50

// WalletService manages wallets and their ledger.
type WalletService struct {
	repos repository.Repositories
	tx    repository.TxManager
	clock Clock
	log   logrus.FieldLogger
}

// NewWalletService creates a new WalletService.
func NewWalletService(repos repository.Repositories, tx repository.TxManager, clock Clock, log logrus.FieldLogger) *WalletService {
	return &WalletService{repos: repos, tx: tx, clock: clock, log: log}
}

// GetWallet returns the caller's wallet, creating an empty one on first use.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := s.repos.Wallets.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	wallet = &domain.Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.Wallets.Create(ctx, wallet); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// created concurrently
			return s.repos.Wallets.GetByUserID(ctx, userID)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

// ListTransactions returns the newest ledger rows of the caller's wallet.
// A caller without a wallet gets an empty list.
func (s *WalletService) ListTransactions(ctx context.Context, userID string) ([]*domain.WalletTransaction, error) {
	wallet, err := s.repos.Wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []*domain.WalletTransaction{}, nil
		}
		return nil, err
	}
	return s.repos.WalletTransactions.ListByWallet(ctx, wallet.ID, TransactionHistoryLimit)
}

// AddFunds credits the caller's wallet and records a credit row.
func (s *WalletService) AddFunds(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !domain.ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Wallets.AdjustBalance(ctx, wallet.ID, amount, now); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
		return repos.WalletTransactions.Append(ctx, &domain.WalletTransaction{
			ID:          uuid.New().String(),
			WalletID:    wallet.ID,
			Amount:      amount,
			Type:        domain.TransactionCredit,
			Description: "Funds added to wallet",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "amount": amount.String()}).Info("wallet funded")
	return s.repos.Wallets.GetByUserID(ctx, userID)
}
