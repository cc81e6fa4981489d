package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ridehail/internal/domain"
	redisstore "ridehail/internal/redis"
	"ridehail/internal/repository"
)

// SettlementService settles completed rides over the wallet or a
// mobile-money provider.
type SettlementService struct {
	repos    repository.Repositories
	tx       repository.TxManager
	locks    redisstore.LockStoreInterface
	provider MobileMoneyProvider
	lockTTL  time.Duration
	clock    Clock
	log      logrus.FieldLogger
}

// NewSettlementService creates a new SettlementService. locks may be nil,
// in which case concurrent attempts are only guarded by the completed
// payment check.
func NewSettlementService(
	repos repository.Repositories,
	tx repository.TxManager,
	locks redisstore.LockStoreInterface,
	provider MobileMoneyProvider,
	lockTTL time.Duration,
	clock Clock,
	log logrus.FieldLogger,
) *SettlementService {
	return &SettlementService{
		repos:    repos,
		tx:       tx,
		locks:    locks,
		provider: provider,
		lockTTL:  lockTTL,
		clock:    clock,
		log:      log,
	}
}

// PayRideRequest contains the parameters for settling a ride.
type PayRideRequest struct {
	RideID      string
	UserID      string
	Provider    domain.PaymentProvider
	Amount      decimal.Decimal
	PhoneNumber string // required for mobile money
}

// PayRide settles a completed ride on behalf of its rider.
func (s *SettlementService) PayRide(ctx context.Context, req PayRideRequest) (*domain.PaymentTransaction, error) {
	if err := validatePayRide(req); err != nil {
		return nil, err
	}

	ride, err := s.repos.Rides.GetByID(ctx, req.RideID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideNotCompleted
		}
		return nil, err
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}
	if !domain.CanPay(ride, req.UserID) {
		return nil, ErrNotRideRider
	}
	if !ride.FinalPrice.Valid {
		return nil, ErrNoFinalPrice
	}

	if s.locks != nil {
		token, acquired, err := s.locks.AcquireRideLock(ctx, ride.ID, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire payment lock: %w", err)
		}
		if !acquired {
			return nil, ErrPaymentInProgress
		}
		defer func() {
			if err := s.locks.ReleaseRideLock(ctx, ride.ID, token); err != nil {
				s.log.WithError(err).WithField("ride_id", ride.ID).Warn("failed to release payment lock")
			}
		}()
	}

	paid, err := s.repos.Payments.HasCompletedForRide(ctx, ride.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, ErrAlreadyPaid
	}

	if req.Provider == domain.ProviderWallet {
		return s.payFromWallet(ctx, ride, req)
	}
	return s.payMobileMoney(ctx, ride, req)
}

func validatePayRide(req PayRideRequest) error {
	if !req.Provider.Valid() {
		return ErrInvalidProvider
	}
	if !domain.ValidAmount(req.Amount) {
		return ErrInvalidAmount
	}
	if req.Provider.IsMobileMoney() && req.PhoneNumber == "" {
		return ErrPhoneRequired
	}
	return nil
}

// payFromWallet moves the amount from the rider's wallet to the driver's in
// one transaction. A driver without a wallet is not credited.
func (s *SettlementService) payFromWallet(ctx context.Context, ride *domain.Ride, req PayRideRequest) (*domain.PaymentTransaction, error) {
	now := s.clock.Now()
	payment := &domain.PaymentTransaction{
		ID:            uuid.New().String(),
		RideID:        ride.ID,
		UserID:        req.UserID,
		Provider:      domain.ProviderWallet,
		Amount:        req.Amount,
		TransactionID: "WALLET-" + uuid.New().String(),
		Status:        domain.PaymentStatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	driverCredited := false

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		riderWallet, driverWallet, err := lockWallets(ctx, repos.Wallets, ride.RiderID, ride.DriverID)
		if err != nil {
			return err
		}
		if riderWallet == nil || riderWallet.Balance.LessThan(req.Amount) {
			return ErrInsufficientFunds
		}

		if err := repos.Wallets.AdjustBalance(ctx, riderWallet.ID, req.Amount.Neg(), now); err != nil {
			return fmt.Errorf("failed to debit rider wallet: %w", err)
		}
		if err := repos.WalletTransactions.Append(ctx, &domain.WalletTransaction{
			ID:          uuid.New().String(),
			WalletID:    riderWallet.ID,
			Amount:      req.Amount,
			Type:        domain.TransactionRidePayment,
			Description: "Payment for ride",
			RideID:      ride.ID,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("failed to record ride payment: %w", err)
		}

		if driverWallet != nil {
			if err := repos.Wallets.AdjustBalance(ctx, driverWallet.ID, req.Amount, now); err != nil {
				return fmt.Errorf("failed to credit driver wallet: %w", err)
			}
			if err := repos.WalletTransactions.Append(ctx, &domain.WalletTransaction{
				ID:          uuid.New().String(),
				WalletID:    driverWallet.ID,
				Amount:      req.Amount,
				Type:        domain.TransactionRideEarning,
				Description: "Earnings from ride",
				RideID:      ride.ID,
				CreatedAt:   now,
			}); err != nil {
				return fmt.Errorf("failed to record ride earning: %w", err)
			}
			driverCredited = true
		}

		return repos.Payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"ride_id":   ride.ID,
		"driver_id": ride.DriverID,
		"provider":  domain.ProviderWallet,
		"amount":    req.Amount.String(),
	})
	if !driverCredited {
		entry.Warn("ride paid from wallet but driver has no wallet to credit")
	} else {
		entry.Info("ride paid from wallet")
	}
	return payment, nil
}

// lockWallets reads both wallets FOR UPDATE in user id order so concurrent
// transfers in opposite directions cannot deadlock. Missing wallets are nil.
func lockWallets(ctx context.Context, wallets repository.WalletRepository, riderID, driverID string) (rider, driver *domain.Wallet, err error) {
	ids := []string{riderID, driverID}
	if driverID < riderID {
		ids[0], ids[1] = driverID, riderID
	}

	found := make(map[string]*domain.Wallet, 2)
	for _, id := range ids {
		if id == "" {
			continue
		}
		w, err := wallets.GetByUserIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("failed to lock wallet: %w", err)
		}
		found[id] = w
	}
	return found[riderID], found[driverID], nil
}

// payMobileMoney records a pending attempt, charges the provider and settles
// the attempt with the provider's answer.
func (s *SettlementService) payMobileMoney(ctx context.Context, ride *domain.Ride, req PayRideRequest) (*domain.PaymentTransaction, error) {
	now := s.clock.Now()
	payment := &domain.PaymentTransaction{
		ID:          uuid.New().String(),
		RideID:      ride.ID,
		UserID:      req.UserID,
		Provider:    req.Provider,
		Amount:      req.Amount,
		PhoneNumber: req.PhoneNumber,
		Status:      domain.PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logEntry := s.log.WithFields(logrus.Fields{
		"ride_id":    ride.ID,
		"payment_id": payment.ID,
		"provider":   req.Provider,
		"amount":     req.Amount.String(),
	})

	result, chargeErr := s.provider.Charge(ctx, ChargeRequest{
		Provider:    req.Provider,
		PaymentID:   payment.ID,
		RideID:      ride.ID,
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount,
	})

	status := domain.PaymentStatusCompleted
	var txnID, response string
	switch {
	case chargeErr != nil:
		status = domain.PaymentStatusFailed
		data, _ := json.Marshal(map[string]string{"error": chargeErr.Error()})
		response = string(data)
	case !result.Succeeded:
		status = domain.PaymentStatusFailed
		txnID, response = result.TransactionID, result.ResponseData
	default:
		txnID, response = result.TransactionID, result.ResponseData
	}

	settledAt := s.clock.Now()
	if err := s.repos.Payments.Settle(ctx, payment.ID, status, txnID, response, settledAt); err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}
	payment.Status = status
	payment.TransactionID = txnID
	payment.ResponseData = response
	payment.UpdatedAt = settledAt

	if status == domain.PaymentStatusFailed {
		if chargeErr != nil {
			logEntry = logEntry.WithError(chargeErr)
		}
		logEntry.Warn("mobile money payment failed")
		return payment, ErrPaymentFailed
	}

	logEntry.WithField("transaction_id", txnID).Info("mobile money payment completed")
	return payment, nil
}
