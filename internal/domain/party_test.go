package domain

import "testing"

func TestCapabilities(t *testing.T) {
	ride := func(status RideStatus, driverID string) *Ride {
		return &Ride{ID: "ride-1", RiderID: "rider-1", DriverID: driverID, Status: status}
	}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"rider creates", CanCreate(Rider("rider-1")), true},
		{"driver cannot create", CanCreate(Driver("driver-1")), false},
		{"driver lists available", CanListAvailable(Driver("driver-1")), true},
		{"rider cannot list available", CanListAvailable(Rider("rider-1")), false},

		{"driver accepts requested", CanAccept(ride(RideStatusRequested, ""), Driver("driver-1")), true},
		{"rider cannot accept", CanAccept(ride(RideStatusRequested, ""), Rider("rider-2")), false},
		{"accepted ride cannot be accepted again", CanAccept(ride(RideStatusAccepted, "driver-1"), Driver("driver-2")), false},

		{"assigned driver picks up", CanPickup(ride(RideStatusAccepted, "driver-1"), "driver-1"), true},
		{"other driver cannot pick up", CanPickup(ride(RideStatusAccepted, "driver-1"), "driver-2"), false},
		{"pickup requires accepted", CanPickup(ride(RideStatusRequested, ""), "driver-1"), false},

		{"assigned driver completes", CanComplete(ride(RideStatusPickedUp, "driver-1"), "driver-1"), true},
		{"rider cannot complete", CanComplete(ride(RideStatusPickedUp, "driver-1"), "rider-1"), false},
		{"complete requires picked up", CanComplete(ride(RideStatusAccepted, "driver-1"), "driver-1"), false},

		{"rider cancels requested", CanCancel(ride(RideStatusRequested, ""), "rider-1"), true},
		{"driver cancels picked up", CanCancel(ride(RideStatusPickedUp, "driver-1"), "driver-1"), true},
		{"stranger cannot cancel", CanCancel(ride(RideStatusRequested, ""), "someone"), false},
		{"completed cannot be cancelled", CanCancel(ride(RideStatusCompleted, "driver-1"), "rider-1"), false},
		{"cancelled cannot be cancelled", CanCancel(ride(RideStatusCancelled, ""), "rider-1"), false},

		{"rider rates completed", CanRate(ride(RideStatusCompleted, "driver-1"), "rider-1"), true},
		{"driver rates completed", CanRate(ride(RideStatusCompleted, "driver-1"), "driver-1"), true},
		{"cannot rate before completion", CanRate(ride(RideStatusPickedUp, "driver-1"), "rider-1"), false},
		{"stranger cannot rate", CanRate(ride(RideStatusCompleted, "driver-1"), "someone"), false},

		{"party messages", CanMessage(ride(RideStatusAccepted, "driver-1"), "driver-1"), true},
		{"stranger cannot message", CanMessage(ride(RideStatusAccepted, "driver-1"), "someone"), false},
		{"empty driver id is not a party", CanView(ride(RideStatusRequested, ""), ""), false},

		{"rider pays completed", CanPay(ride(RideStatusCompleted, "driver-1"), "rider-1"), true},
		{"driver cannot pay", CanPay(ride(RideStatusCompleted, "driver-1"), "driver-1"), false},
		{"cannot pay before completion", CanPay(ride(RideStatusPickedUp, "driver-1"), "rider-1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestPartyFor(t *testing.T) {
	p := PartyFor(&Profile{UserID: "u-1", Role: RoleDriver})
	if !p.IsDriver() || p.IsRider() {
		t.Errorf("expected driver party, got %+v", p)
	}
	if p.UserID != "u-1" {
		t.Errorf("expected user id u-1, got %s", p.UserID)
	}
}
