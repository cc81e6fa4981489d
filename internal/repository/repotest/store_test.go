package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	s.Repositories().Wallets.Create(ctx, &domain.Wallet{ID: "w-1", UserID: "u-1", Balance: decimal.NewFromInt(10)})

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Wallets.AdjustBalance(ctx, "w-1", decimal.NewFromInt(5), now); err != nil {
			return err
		}
		repos.WalletTransactions.Append(ctx, &domain.WalletTransaction{ID: "t-1", WalletID: "w-1", Amount: decimal.NewFromInt(5)})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	w, _ := s.Repositories().Wallets.GetByUserID(ctx, "u-1")
	if !w.Balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("balance must be restored, got %s", w.Balance)
	}
	txns, _ := s.Repositories().WalletTransactions.ListByWallet(ctx, "w-1", 10)
	if len(txns) != 0 {
		t.Errorf("ledger must be restored, got %d rows", len(txns))
	}
	if s.Rollbacks != 1 || s.Commits != 0 {
		t.Errorf("expected 1 rollback and 0 commits, got %d/%d", s.Rollbacks, s.Commits)
	}
}

func TestWithinTx_Commits(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Repositories().Wallets.Create(ctx, &domain.Wallet{ID: "w-1", UserID: "u-1"})

	err := s.WithinTx(ctx, func(repos repository.Repositories) error {
		return repos.Wallets.AdjustBalance(ctx, "w-1", decimal.NewFromInt(7), time.Now())
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	w, _ := s.Repositories().Wallets.GetByUserID(ctx, "u-1")
	if !w.Balance.Equal(decimal.NewFromInt(7)) || s.Commits != 1 {
		t.Errorf("expected committed balance 7, got %s (commits=%d)", w.Balance, s.Commits)
	}
}

func TestFailOn(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	s.FailOn("Profiles.Create", boom)
	if err := s.Repositories().Profiles.Create(ctx, &domain.Profile{UserID: "u-1"}); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	s.FailOn("Profiles.Create", nil)
	if err := s.Repositories().Profiles.Create(ctx, &domain.Profile{UserID: "u-1"}); err != nil {
		t.Fatalf("after clearing: %v", err)
	}
	if err := s.Repositories().Profiles.Create(ctx, &domain.Profile{UserID: "u-1"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestRideGuards(t *testing.T) {
	ctx := context.Background()
	s := New()
	rides := s.Repositories().Rides
	now := time.Now()

	rides.Create(ctx, &domain.Ride{ID: "r-1", RiderID: "u-1", Status: domain.RideStatusRequested, CreatedAt: now})

	if err := rides.MarkPickedUp(ctx, "r-1", "d-1", now); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("pickup of requested ride: expected ErrNotFound, got %v", err)
	}
	if err := rides.Accept(ctx, "r-1", "d-1", decimal.NewFromInt(5), now); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := rides.Accept(ctx, "r-1", "d-2", decimal.NewFromInt(4), now); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second accept: expected ErrNotFound, got %v", err)
	}
	from := []domain.RideStatus{domain.RideStatusRequested}
	if err := rides.Cancel(ctx, "r-1", from, now); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("cancel outside allowed states: expected ErrNotFound, got %v", err)
	}

	ride, _ := rides.GetByID(ctx, "r-1")
	if ride.DriverID != "d-1" || ride.VehicleType != domain.DefaultVehicleType {
		t.Errorf("unexpected stored ride: %+v", ride)
	}
}

func TestEarningsSums(t *testing.T) {
	ctx := context.Background()
	s := New()
	earnings := s.Repositories().Earnings
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	earnings.Create(ctx, &domain.DriverEarning{ID: "e-1", DriverID: "d-1", RideID: "r-1", Amount: decimal.NewFromInt(10), Date: day})
	earnings.Create(ctx, &domain.DriverEarning{ID: "e-2", DriverID: "d-1", RideID: "r-2", Amount: decimal.NewFromInt(3), Date: day.AddDate(0, 0, -2)})
	earnings.Create(ctx, &domain.DriverEarning{ID: "e-3", DriverID: "d-2", RideID: "r-3", Amount: decimal.NewFromInt(99), Date: day})

	if err := earnings.Create(ctx, &domain.DriverEarning{ID: "e-4", DriverID: "d-1", RideID: "r-1", Amount: decimal.NewFromInt(1), Date: day}); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("second earning for a ride: expected ErrDuplicate, got %v", err)
	}

	on, _ := earnings.SumOn(ctx, "d-1", day.Add(15*time.Hour))
	if !on.Equal(decimal.NewFromInt(10)) {
		t.Errorf("SumOn = %s, want 10", on)
	}
	since, _ := earnings.SumSince(ctx, "d-1", day.AddDate(0, 0, -7))
	if !since.Equal(decimal.NewFromInt(13)) {
		t.Errorf("SumSince = %s, want 13", since)
	}
}
