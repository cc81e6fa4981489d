package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"ridehail/internal/domain"
	"ridehail/internal/repository/repotest"
	"ridehail/internal/service"
)

// fixedClock is a manually advanced service.Clock.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// harness wires every service against one in-memory store.
type harness struct {
	store     *repotest.Store
	locations *repotest.LocationStore
	locks     *repotest.LockStore
	cache     *repotest.CacheStore
	clock     *fixedClock
	logs      *logtest.Hook

	rides      *service.RideService
	profiles   *service.ProfileService
	favorites  *service.FavoriteService
	earnings   *service.EarningsService
	wallets    *service.WalletService
	settlement *service.SettlementService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	h := &harness{
		store:     repotest.New(),
		locations: repotest.NewLocationStore(),
		locks:     repotest.NewLockStore(),
		cache:     repotest.NewCacheStore(),
		clock:     newFixedClock(),
		logs:      hook,
	}
	repos := h.store.Repositories()

	h.rides = service.NewRideService(repos, h.store, h.locations, h.cache, h.clock, log)
	h.profiles = service.NewProfileService(repos.Profiles, h.locations, h.clock, log)
	h.favorites = service.NewFavoriteService(repos.FavoriteLocations, h.clock)
	h.earnings = service.NewEarningsService(repos.Profiles, repos.Earnings, h.cache, h.clock, log)
	h.wallets = service.NewWalletService(repos, h.store, h.clock, log)
	h.settlement = service.NewSettlementService(repos, h.store, h.locks, service.NewSimulatedProvider(), 30*time.Second, h.clock, log)
	return h
}

func (h *harness) createProfile(t *testing.T, userID string, role domain.Role) *domain.Profile {
	t.Helper()
	p, err := h.profiles.CreateProfile(context.Background(), service.CreateProfileRequest{
		UserID:      userID,
		Role:        role,
		FullName:    "User " + userID,
		PhoneNumber: "+260970000000",
	})
	if err != nil {
		t.Fatalf("create profile %s: %v", userID, err)
	}
	return p
}

func (h *harness) requestRide(t *testing.T, riderID string, price int64) *domain.Ride {
	t.Helper()
	ride, err := h.rides.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        riderID,
		PickupLat:      -15.4167,
		PickupLng:      28.2833,
		PickupAddress:  "Cairo Road",
		DropoffLat:     -15.3875,
		DropoffLng:     28.3228,
		DropoffAddress: "East Park Mall",
		RiderPrice:     decimal.NewFromInt(price),
	})
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

// completedRide drives a new ride through the whole lifecycle.
func (h *harness) completedRide(t *testing.T, riderID, driverID string, riderPrice, driverPrice int64) *domain.Ride {
	t.Helper()
	ctx := context.Background()

	ride := h.requestRide(t, riderID, riderPrice)
	if _, err := h.rides.AcceptRide(ctx, ride.ID, driverID, decimal.NewFromInt(driverPrice)); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := h.rides.PickupRide(ctx, ride.ID, driverID); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	completed, err := h.rides.CompleteRide(ctx, ride.ID, driverID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	return completed
}

func (h *harness) fundWallet(t *testing.T, userID string, amount int64) {
	t.Helper()
	if _, err := h.wallets.AddFunds(context.Background(), userID, decimal.NewFromInt(amount)); err != nil {
		t.Fatalf("add funds: %v", err)
	}
}

func (h *harness) balance(t *testing.T, userID string) decimal.Decimal {
	t.Helper()
	w, err := h.store.Repositories().Wallets.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("get wallet %s: %v", userID, err)
	}
	return w.Balance
}

func nullLogger() *logrus.Logger {
	log, _ := logtest.NewNullLogger()
	return log
}
