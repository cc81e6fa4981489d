package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

func payReq(rideID, userID string, provider domain.PaymentProvider, amount int64) service.PayRideRequest {
	req := service.PayRideRequest{
		RideID:   rideID,
		UserID:   userID,
		Provider: provider,
		Amount:   decimal.NewFromInt(amount),
	}
	if provider.IsMobileMoney() {
		req.PhoneNumber = "+260971234567"
	}
	return req
}

func TestPayRide_Wallet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 25, 30)

	h.fundWallet(t, "rider-1", 100)
	if _, err := h.wallets.GetWallet(ctx, "driver-1"); err != nil {
		t.Fatalf("driver wallet: %v", err)
	}

	payment, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderWallet, 30))
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed payment, got %s", payment.Status)
	}
	if !strings.HasPrefix(payment.TransactionID, "WALLET-") {
		t.Errorf("expected WALLET- transaction id, got %q", payment.TransactionID)
	}

	if got := h.balance(t, "rider-1"); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected rider balance 70, got %s", got)
	}
	if got := h.balance(t, "driver-1"); !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected driver balance 30, got %s", got)
	}

	riderTxns, _ := h.wallets.ListTransactions(ctx, "rider-1")
	if len(riderTxns) != 2 || riderTxns[0].Type != domain.TransactionRidePayment || riderTxns[0].RideID != ride.ID {
		t.Errorf("expected ride_payment as newest rider row, got %+v", riderTxns)
	}
	driverTxns, _ := h.wallets.ListTransactions(ctx, "driver-1")
	if len(driverTxns) != 1 || driverTxns[0].Type != domain.TransactionRideEarning {
		t.Errorf("expected one ride_earning row for driver, got %+v", driverTxns)
	}

	if h.locks.Acquired != 1 || h.locks.Released != 1 {
		t.Errorf("expected lock acquired and released once, got %d/%d", h.locks.Acquired, h.locks.Released)
	}

	if _, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderWallet, 30)); !errors.Is(err, service.ErrAlreadyPaid) {
		t.Errorf("second payment: expected ErrAlreadyPaid, got %v", err)
	}
}

func TestPayRide_WalletInsufficientFunds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 25, 30)

	// No wallet at all.
	if _, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderWallet, 30)); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("no wallet: expected ErrInsufficientFunds, got %v", err)
	}

	h.fundWallet(t, "rider-1", 10)
	if _, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderWallet, 30)); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("short wallet: expected ErrInsufficientFunds, got %v", err)
	}

	if got := h.balance(t, "rider-1"); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("balance must be unchanged, got %s", got)
	}
	txns, _ := h.wallets.ListTransactions(ctx, "rider-1")
	if len(txns) != 1 {
		t.Errorf("expected only the funding row, got %d rows", len(txns))
	}
	paid, _ := h.store.Repositories().Payments.HasCompletedForRide(ctx, ride.ID)
	if paid {
		t.Error("no payment must be recorded")
	}
}

func TestPayRide_WalletDriverWithoutWallet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 20, 20)
	h.fundWallet(t, "rider-1", 50)

	if _, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderWallet, 20)); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if got := h.balance(t, "rider-1"); !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected rider debited to 30, got %s", got)
	}

	warned := false
	for _, e := range h.logs.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["ride_id"] == ride.ID {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning about the uncredited driver")
	}
}

func TestPayRide_WalletRollsBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 20, 20)
	h.fundWallet(t, "rider-1", 50)
	h.wallets.GetWallet(ctx, "driver-1")

	boom := errors.New("connection reset")
	h.store.FailOn("Payments.Create", boom)
	if _, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderWallet, 20)); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}

	if got := h.balance(t, "rider-1"); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("rider balance must roll back, got %s", got)
	}
	if got := h.balance(t, "driver-1"); !got.IsZero() {
		t.Errorf("driver balance must roll back, got %s", got)
	}
	if h.locks.Released != h.locks.Acquired {
		t.Errorf("lock must be released on failure")
	}
}

func TestPayRide_MobileMoney(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 25, 30)

	h.clock.Advance(time.Minute)
	payment, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderMTN, 30))
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed, got %s", payment.Status)
	}
	if !strings.HasPrefix(payment.TransactionID, "SIM-") {
		t.Errorf("expected SIM- transaction id, got %q", payment.TransactionID)
	}
	if payment.ResponseData == "" {
		t.Error("expected provider response data")
	}

	stored, err := h.store.Repositories().Payments.GetByID(ctx, payment.ID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if stored.Status != domain.PaymentStatusCompleted || stored.PhoneNumber == "" {
		t.Errorf("unexpected stored payment: %+v", stored)
	}
}

type failingProvider struct{ err error }

func (p failingProvider) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	return nil, p.err
}

func TestPayRide_MobileMoneyFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 25, 30)

	settlement := service.NewSettlementService(
		h.store.Repositories(), h.store, h.locks, failingProvider{err: errors.New("provider timeout")},
		time.Second, h.clock, nullLogger(),
	)
	payment, err := settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderAirtel, 30))
	if !errors.Is(err, service.ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	if payment == nil || payment.Status != domain.PaymentStatusFailed {
		t.Fatalf("expected failed payment row, got %+v", payment)
	}
	if !strings.Contains(payment.ResponseData, "provider timeout") {
		t.Errorf("expected error in response data, got %q", payment.ResponseData)
	}

	// A failed attempt does not block a retry.
	if _, err := h.settlement.PayRide(ctx, payReq(ride.ID, "rider-1", domain.ProviderAirtel, 30)); err != nil {
		t.Errorf("retry: %v", err)
	}
}

func TestPayRide_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	open := h.requestRide(t, "rider-1", 10)
	done := h.completedRide(t, "rider-1", "driver-1", 10, 10)

	noPhone := payReq(done.ID, "rider-1", domain.ProviderZamtel, 10)
	noPhone.PhoneNumber = ""
	subCent := payReq(done.ID, "rider-1", domain.ProviderWallet, 10)
	subCent.Amount = decimal.RequireFromString("0.001")

	tests := []struct {
		name    string
		req     service.PayRideRequest
		wantErr error
	}{
		{"unknown provider", payReq(done.ID, "rider-1", "visa", 10), service.ErrInvalidProvider},
		{"zero amount", payReq(done.ID, "rider-1", domain.ProviderWallet, 0), service.ErrInvalidAmount},
		{"sub-cent amount", subCent, service.ErrInvalidAmount},
		{"missing phone", noPhone, service.ErrPhoneRequired},
		{"ride not completed", payReq(open.ID, "rider-1", domain.ProviderWallet, 10), service.ErrRideNotCompleted},
		{"ride missing", payReq("missing", "rider-1", domain.ProviderWallet, 10), service.ErrRideNotCompleted},
		{"driver cannot pay", payReq(done.ID, "driver-1", domain.ProviderWallet, 10), service.ErrNotRideRider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.settlement.PayRide(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPayRide_LockHeld(t *testing.T) {
	h := newHarness(t)
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 10, 10)
	h.fundWallet(t, "rider-1", 50)

	h.locks.Hold(ride.ID)
	_, err := h.settlement.PayRide(context.Background(), payReq(ride.ID, "rider-1", domain.ProviderWallet, 10))
	if !errors.Is(err, service.ErrPaymentInProgress) {
		t.Fatalf("expected ErrPaymentInProgress, got %v", err)
	}
	if got := h.balance(t, "rider-1"); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("balance must be unchanged, got %s", got)
	}
}

// slowProvider runs before each charge, standing in for a provider call that
// outlives the payment lock.
type slowProvider struct {
	before func()
}

func (p slowProvider) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	p.before()
	return service.NewSimulatedProvider().Charge(ctx, req)
}

func TestPayRide_ExpiredLockIsNotReleasedFromNewHolder(t *testing.T) {
	h := newHarness(t)
	h.createProfile(t, "rider-1", domain.RoleRider)
	h.createProfile(t, "driver-1", domain.RoleDriver)
	ride := h.completedRide(t, "rider-1", "driver-1", 25, 30)

	settlement := service.NewSettlementService(
		h.store.Repositories(), h.store, h.locks, slowProvider{before: func() {
			h.locks.Expire(ride.ID)
			h.locks.Hold(ride.ID)
		}},
		time.Second, h.clock, nullLogger(),
	)
	if _, err := settlement.PayRide(context.Background(), payReq(ride.ID, "rider-1", domain.ProviderMTN, 30)); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !h.locks.Held(ride.ID) {
		t.Error("lock taken by another holder after expiry must survive the first holder's release")
	}
}
