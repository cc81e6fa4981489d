// Package repotest provides an in-memory implementation of the repository
// interfaces for service and handler tests.
package repotest

import (
	"context"
	"maps"
	"sync"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

type state struct {
	profiles  map[string]domain.Profile // by user id
	rides     map[string]domain.Ride
	rideOrder []string
	messages  []domain.RideMessage
	favorites []domain.FavoriteLocation
	wallets   map[string]domain.Wallet // by user id
	ledger    []domain.WalletTransaction
	earnings  []domain.DriverEarning
	payments  map[string]domain.PaymentTransaction
}

func newState() state {
	return state{
		profiles: make(map[string]domain.Profile),
		rides:    make(map[string]domain.Ride),
		wallets:  make(map[string]domain.Wallet),
		payments: make(map[string]domain.PaymentTransaction),
	}
}

func (s state) clone() state {
	return state{
		profiles:  maps.Clone(s.profiles),
		rides:     maps.Clone(s.rides),
		rideOrder: append([]string(nil), s.rideOrder...),
		messages:  append([]domain.RideMessage(nil), s.messages...),
		favorites: append([]domain.FavoriteLocation(nil), s.favorites...),
		wallets:   maps.Clone(s.wallets),
		ledger:    append([]domain.WalletTransaction(nil), s.ledger...),
		earnings:  append([]domain.DriverEarning(nil), s.earnings...),
		payments:  maps.Clone(s.payments),
	}
}

// Store is an in-memory database. The zero value is not usable; call New.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state

	failMu sync.Mutex
	fail   map[string]error

	// Commits and Rollbacks count finished transactions.
	Commits   int
	Rollbacks int
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: newState(), fail: make(map[string]error)}
}

// FailOn makes the named operation (for example "Earnings.Create") return err
// until cleared with FailOn(op, nil).
func (s *Store) FailOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *Store) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.fail[op]
}

// Repositories returns every repository backed by the store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Profiles:           &ProfileRepository{s: s},
		Rides:              &RideRepository{s: s},
		Messages:           &MessageRepository{s: s},
		FavoriteLocations:  &FavoriteLocationRepository{s: s},
		Wallets:            &WalletRepository{s: s},
		WalletTransactions: &WalletTransactionRepository{s: s},
		Earnings:           &EarningsRepository{s: s},
		Payments:           &PaymentRepository{s: s},
	}
}

// WithinTx serialises transactions and restores the pre-transaction state
// when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := s.injected("Tx.Begin"); err != nil {
		return err
	}

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s.Repositories()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

var _ repository.TxManager = (*Store)(nil)
