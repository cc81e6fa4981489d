package repotest

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// ProfileRepository is the in-memory repository.ProfileRepository.
type ProfileRepository struct{ s *Store }

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	if err := r.s.injected("Profiles.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.profiles[p.UserID]; ok {
		return repository.ErrDuplicate
	}
	r.s.data.profiles[p.UserID] = *p
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := r.s.injected("Profiles.GetByUserID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID string, u repository.ProfileUpdate) error {
	if err := r.s.injected("Profiles.Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.PhoneNumber != nil {
		p.PhoneNumber = *u.PhoneNumber
	}
	if u.VehicleType != nil {
		p.Vehicle.Type = *u.VehicleType
	}
	if u.VehiclePlate != nil {
		p.Vehicle.Plate = *u.VehiclePlate
	}
	if u.VehicleColor != nil {
		p.Vehicle.Color = *u.VehicleColor
	}
	if u.IsAvailable != nil {
		p.IsAvailable = *u.IsAvailable
	}
	if u.CurrentLat != nil {
		lat := *u.CurrentLat
		p.CurrentLat = &lat
	}
	if u.CurrentLng != nil {
		lng := *u.CurrentLng
		p.CurrentLng = &lng
	}
	r.s.data.profiles[userID] = p
	return nil
}

func (r *ProfileRepository) IncrementTotalRides(ctx context.Context, userIDs ...string) error {
	if err := r.s.injected("Profiles.IncrementTotalRides"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range userIDs {
		if p, ok := r.s.data.profiles[id]; ok {
			p.TotalRides++
			r.s.data.profiles[id] = p
		}
	}
	return nil
}

func (r *ProfileRepository) SetRating(ctx context.Context, userID string, rating *float64) error {
	if err := r.s.injected("Profiles.SetRating"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.profiles[userID]
	if !ok {
		return nil
	}
	p.Rating = rating
	r.s.data.profiles[userID] = p
	return nil
}

// RideRepository is the in-memory repository.RideRepository.
type RideRepository struct{ s *Store }

func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	if err := r.s.injected("Rides.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.rides[ride.ID]; ok {
		return repository.ErrDuplicate
	}
	stored := *ride
	if stored.VehicleType == "" {
		stored.VehicleType = domain.DefaultVehicleType
	}
	if stored.PaymentMethod == "" {
		stored.PaymentMethod = domain.DefaultPaymentMethod
	}
	r.s.data.rides[ride.ID] = stored
	r.s.data.rideOrder = append(r.s.data.rideOrder, ride.ID)
	return nil
}

func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	if err := r.s.injected("Rides.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ride, ok := r.s.data.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ride, nil
}

// filter returns matching rides ordered by creation time, ties broken by
// insertion order.
func (r *RideRepository) filter(match func(domain.Ride) bool, newestFirst bool) []*domain.Ride {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rides := []*domain.Ride{}
	for _, id := range r.s.data.rideOrder {
		ride := r.s.data.rides[id]
		if match(ride) {
			rides = append(rides, &ride)
		}
	}
	sort.SliceStable(rides, func(i, j int) bool {
		return rides[i].CreatedAt.Before(rides[j].CreatedAt)
	})
	if newestFirst {
		slices.Reverse(rides)
	}
	return rides
}

func (r *RideRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	return r.filter(func(ride domain.Ride) bool { return ride.RiderID == riderID }, true), nil
}

func (r *RideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	return r.filter(func(ride domain.Ride) bool { return ride.DriverID != "" && ride.DriverID == driverID }, true), nil
}

func (r *RideRepository) ListRequested(ctx context.Context, limit int) ([]*domain.Ride, error) {
	rides := r.filter(func(ride domain.Ride) bool { return ride.Status == domain.RideStatusRequested }, false)
	if len(rides) > limit {
		rides = rides[:limit]
	}
	return rides, nil
}

// update applies fn to the ride when guard holds; ErrNotFound otherwise.
func (r *RideRepository) update(op, id string, guard func(domain.Ride) bool, fn func(*domain.Ride)) error {
	if err := r.s.injected(op); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ride, ok := r.s.data.rides[id]
	if !ok || !guard(ride) {
		return repository.ErrNotFound
	}
	fn(&ride)
	r.s.data.rides[id] = ride
	return nil
}

func (r *RideRepository) Accept(ctx context.Context, id, driverID string, driverPrice decimal.Decimal, at time.Time) error {
	return r.update("Rides.Accept", id,
		func(ride domain.Ride) bool { return ride.Status == domain.RideStatusRequested },
		func(ride *domain.Ride) {
			ride.DriverID = driverID
			ride.DriverPrice = decimal.NewNullDecimal(driverPrice)
			ride.Status = domain.RideStatusAccepted
			ride.AcceptedAt = at
			ride.UpdatedAt = at
		})
}

func (r *RideRepository) MarkPickedUp(ctx context.Context, id, driverID string, at time.Time) error {
	return r.update("Rides.MarkPickedUp", id,
		func(ride domain.Ride) bool {
			return ride.DriverID == driverID && ride.Status == domain.RideStatusAccepted
		},
		func(ride *domain.Ride) {
			ride.Status = domain.RideStatusPickedUp
			ride.StartedAt = at
			ride.UpdatedAt = at
		})
}

func (r *RideRepository) MarkCompleted(ctx context.Context, id, driverID string, finalPrice decimal.Decimal, at time.Time) error {
	return r.update("Rides.MarkCompleted", id,
		func(ride domain.Ride) bool {
			return ride.DriverID == driverID && ride.Status == domain.RideStatusPickedUp
		},
		func(ride *domain.Ride) {
			ride.Status = domain.RideStatusCompleted
			ride.FinalPrice = decimal.NewNullDecimal(finalPrice)
			ride.CompletedAt = at
			ride.UpdatedAt = at
		})
}

func (r *RideRepository) Cancel(ctx context.Context, id string, from []domain.RideStatus, at time.Time) error {
	return r.update("Rides.Cancel", id,
		func(ride domain.Ride) bool { return slices.Contains(from, ride.Status) },
		func(ride *domain.Ride) {
			ride.Status = domain.RideStatusCancelled
			ride.CancelledAt = at
			ride.UpdatedAt = at
		})
}

func (r *RideRepository) SetRating(ctx context.Context, id string, slot repository.RatingSlot, rating int, feedback string, at time.Time) error {
	return r.update("Rides.SetRating", id,
		func(ride domain.Ride) bool { return ride.Status == domain.RideStatusCompleted },
		func(ride *domain.Ride) {
			score := rating
			if slot == repository.SlotDriver {
				ride.DriverRating = &score
				ride.RiderFeedback = feedback
			} else {
				ride.RiderRating = &score
				ride.DriverFeedback = feedback
			}
			ride.UpdatedAt = at
		})
}

func (r *RideRepository) AverageRating(ctx context.Context, userID string, slot repository.RatingSlot) (*float64, error) {
	if err := r.s.injected("Rides.AverageRating"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var sum, n int
	for _, ride := range r.s.data.rides {
		if ride.Status != domain.RideStatusCompleted {
			continue
		}
		var holder string
		var score *int
		if slot == repository.SlotDriver {
			holder, score = ride.DriverID, ride.DriverRating
		} else {
			holder, score = ride.RiderID, ride.RiderRating
		}
		if holder == userID && score != nil {
			sum += *score
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(n)
	return &avg, nil
}

// MessageRepository is the in-memory repository.MessageRepository.
type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(ctx context.Context, msg *domain.RideMessage) error {
	if err := r.s.injected("Messages.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.messages = append(r.s.data.messages, *msg)
	return nil
}

func (r *MessageRepository) ListByRide(ctx context.Context, rideID string) ([]*domain.RideMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.RideMessage{}
	for _, m := range r.s.data.messages {
		if m.RideID == rideID {
			m := m
			out = append(out, &m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// FavoriteLocationRepository is the in-memory repository.FavoriteLocationRepository.
type FavoriteLocationRepository struct{ s *Store }

func (r *FavoriteLocationRepository) Create(ctx context.Context, loc *domain.FavoriteLocation) error {
	if err := r.s.injected("FavoriteLocations.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.favorites = append(r.s.data.favorites, *loc)
	return nil
}

func (r *FavoriteLocationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteLocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.FavoriteLocation{}
	for i := len(r.s.data.favorites) - 1; i >= 0; i-- {
		l := r.s.data.favorites[i]
		if l.UserID == userID {
			out = append(out, &l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *FavoriteLocationRepository) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, l := range r.s.data.favorites {
		if l.ID == id && l.UserID == userID {
			r.s.data.favorites = slices.Delete(r.s.data.favorites, i, i+1)
			return nil
		}
	}
	return repository.ErrNotFound
}

// WalletRepository is the in-memory repository.WalletRepository.
type WalletRepository struct{ s *Store }

func (r *WalletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	if err := r.s.injected("Wallets.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.wallets[w.UserID]; ok {
		return repository.ErrDuplicate
	}
	r.s.data.wallets[w.UserID] = *w
	return nil
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.wallets[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

// GetByUserIDForUpdate relies on WithinTx serialisation for exclusivity.
func (r *WalletRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *WalletRepository) AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal, at time.Time) error {
	if err := r.s.injected("Wallets.AdjustBalance"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for userID, w := range r.s.data.wallets {
		if w.ID == walletID {
			w.Balance = w.Balance.Add(delta)
			w.UpdatedAt = at
			r.s.data.wallets[userID] = w
			return nil
		}
	}
	return repository.ErrNotFound
}

// WalletTransactionRepository is the in-memory repository.WalletTransactionRepository.
type WalletTransactionRepository struct{ s *Store }

func (r *WalletTransactionRepository) Append(ctx context.Context, t *domain.WalletTransaction) error {
	if err := r.s.injected("WalletTransactions.Append"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.ledger = append(r.s.data.ledger, *t)
	return nil
}

func (r *WalletTransactionRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.WalletTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.WalletTransaction{}
	for i := len(r.s.data.ledger) - 1; i >= 0; i-- {
		t := r.s.data.ledger[i]
		if t.WalletID == walletID {
			out = append(out, &t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// EarningsRepository is the in-memory repository.EarningsRepository.
type EarningsRepository struct{ s *Store }

func (r *EarningsRepository) Create(ctx context.Context, e *domain.DriverEarning) error {
	if err := r.s.injected("Earnings.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.earnings {
		if existing.RideID == e.RideID {
			return repository.ErrDuplicate
		}
	}
	r.s.data.earnings = append(r.s.data.earnings, *e)
	return nil
}

func (r *EarningsRepository) SumSince(ctx context.Context, driverID string, since time.Time) (decimal.Decimal, error) {
	from := dayOf(since)
	return r.sum(driverID, func(d time.Time) bool { return !d.Before(from) }), nil
}

func (r *EarningsRepository) SumOn(ctx context.Context, driverID string, day time.Time) (decimal.Decimal, error) {
	on := dayOf(day)
	return r.sum(driverID, func(d time.Time) bool { return d.Equal(on) }), nil
}

func (r *EarningsRepository) sum(driverID string, match func(time.Time) bool) decimal.Decimal {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, e := range r.s.data.earnings {
		if e.DriverID == driverID && match(dayOf(e.Date)) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PaymentRepository is the in-memory repository.PaymentRepository.
type PaymentRepository struct{ s *Store }

func (r *PaymentRepository) Create(ctx context.Context, p *domain.PaymentTransaction) error {
	if err := r.s.injected("Payments.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PaymentRepository) HasCompletedForRide(ctx context.Context, rideID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.payments {
		if p.RideID == rideID && p.Status == domain.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *PaymentRepository) Settle(ctx context.Context, id string, status domain.PaymentStatus, transactionID, responseData string, at time.Time) error {
	if err := r.s.injected("Payments.Settle"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.payments[id]
	if !ok || p.Status != domain.PaymentStatusPending {
		return repository.ErrNotFound
	}
	p.Status = status
	p.TransactionID = transactionID
	p.ResponseData = responseData
	p.UpdatedAt = at
	r.s.data.payments[id] = p
	return nil
}
