package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	all := []RideStatus{
		RideStatusRequested, RideStatusAccepted, RideStatusPickedUp,
		RideStatusCompleted, RideStatusCancelled,
	}
	legal := map[[2]RideStatus]bool{
		{RideStatusRequested, RideStatusAccepted}:  true,
		{RideStatusRequested, RideStatusCancelled}: true,
		{RideStatusAccepted, RideStatusPickedUp}:   true,
		{RideStatusAccepted, RideStatusCancelled}:  true,
		{RideStatusPickedUp, RideStatusCompleted}:  true,
		{RideStatusPickedUp, RideStatusCancelled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]RideStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestRideStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status RideStatus
		want   bool
	}{
		{RideStatusRequested, false},
		{RideStatusAccepted, false},
		{RideStatusPickedUp, false},
		{RideStatusCompleted, true},
		{RideStatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestRide_SettlementPrice(t *testing.T) {
	tests := []struct {
		name   string
		rider  decimal.NullDecimal
		driver decimal.NullDecimal
		want   string
	}{
		{"driver counter-offer wins", decimal.NewNullDecimal(decimal.NewFromInt(25)), decimal.NewNullDecimal(decimal.NewFromInt(30)), "30"},
		{"falls back to rider price", decimal.NewNullDecimal(decimal.NewFromInt(25)), decimal.NullDecimal{}, "25"},
		{"zero when neither is set", decimal.NullDecimal{}, decimal.NullDecimal{}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Ride{RiderPrice: tt.rider, DriverPrice: tt.driver}
			if got := r.SettlementPrice().String(); got != tt.want {
				t.Errorf("SettlementPrice() = %s, want %s", got, tt.want)
			}
		})
	}
}
