package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"ridehail/internal/domain"
	redisstore "ridehail/internal/redis"
	"ridehail/internal/repository"
)

// EarningsService aggregates driver earnings.
type EarningsService struct {
	profiles repository.ProfileRepository
	earnings repository.EarningsRepository
	cache    redisstore.CacheStoreInterface
	clock    Clock
	log      logrus.FieldLogger
}

// NewEarningsService creates a new EarningsService. cache may be nil.
func NewEarningsService(
	profiles repository.ProfileRepository,
	earnings repository.EarningsRepository,
	cache redisstore.CacheStoreInterface,
	clock Clock,
	log logrus.FieldLogger,
) *EarningsService {
	return &EarningsService{
		profiles: profiles,
		earnings: earnings,
		cache:    cache,
		clock:    clock,
		log:      log,
	}
}

// Summary returns today's, the last 7 days' and the last 30 days' totals
// together with the driver's completed ride count.
func (s *EarningsService) Summary(ctx context.Context, driverID string) (*domain.EarningsSummary, error) {
	profile, err := s.profiles.GetByUserID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotDriver
		}
		return nil, err
	}
	if !profile.IsDriver() {
		return nil, ErrNotDriver
	}

	if s.cache != nil {
		cached, err := s.cache.GetEarnings(ctx, driverID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redisstore.ErrCacheMiss) {
			s.log.WithError(err).WithField("driver_id", driverID).Warn("earnings cache read failed")
		}
	}

	day := today(s.clock.Now())
	todayTotal, err := s.earnings.SumOn(ctx, driverID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to sum earnings: %w", err)
	}
	week, err := s.earnings.SumSince(ctx, driverID, day.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to sum earnings: %w", err)
	}
	month, err := s.earnings.SumSince(ctx, driverID, day.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("failed to sum earnings: %w", err)
	}

	summary := &domain.EarningsSummary{
		Today:      todayTotal,
		Week:       week,
		Month:      month,
		TotalRides: profile.TotalRides,
	}

	if s.cache != nil {
		if err := s.cache.SetEarnings(ctx, driverID, summary); err != nil {
			s.log.WithError(err).WithField("driver_id", driverID).Warn("earnings cache write failed")
		}
	}
	return summary, nil
}
