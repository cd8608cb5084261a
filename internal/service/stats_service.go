package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

// Loyalty tier thresholds, lowest point count that qualifies.
const (
	goldMinPoints   = 500
	silverMinPoints = 100
	bronzeMinPoints = 1
)

// StatsService exposes the daily aggregates and the reporting queries built
// on top of them.
type StatsService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService builds service.
func NewStatsService(st store.Store, logger *zap.Logger) *StatsService {
	return &StatsService{
		store:  st,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Today returns the aggregate row for the current UTC date, creating a zero
// row on first access of the day.
func (s *StatsService) Today(ctx context.Context) (*models.DailyStat, error) {
	return s.store.GetOrCreateDailyStat(ctx, models.Day(s.now()))
}

// ForDate returns the aggregate row for an arbitrary date.
func (s *StatsService) ForDate(ctx context.Context, date time.Time) (*models.DailyStat, error) {
	return s.store.GetOrCreateDailyStat(ctx, models.Day(date))
}

// Recompute discards the incremental counters for a date and rebuilds the row
// from the sessions table. The incremental path can drift after crashes or
// manual data fixes; the session rows stay the source of truth.
func (s *StatsService) Recompute(ctx context.Context, date time.Time) (*models.DailyStat, error) {
	stat, err := s.store.RecomputeDailyStat(ctx, models.Day(date))
	if err != nil {
		return nil, err
	}
	s.logger.Info("daily stats recomputed",
		zap.Time("date", stat.Date),
		zap.Float64("revenue", stat.TotalRevenue),
		zap.Float64("hours", stat.TotalHours),
	)
	return stat, nil
}

// Revenue returns one point per day over [from, to].
func (s *StatsService) Revenue(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.store.RevenueRange(ctx, from, to)
}

// PaymentMethods breaks completed payments down by method over [from, to].
func (s *StatsService) PaymentMethods(ctx context.Context, from, to time.Time) ([]models.MethodBreakdown, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.store.PaymentMethodBreakdown(ctx, from, to)
}

// GamePerformance ranks games by completed sessions and revenue over [from, to].
func (s *StatsService) GamePerformance(ctx context.Context, from, to time.Time) ([]models.GamePerformance, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.store.GamePerformanceRange(ctx, from, to)
}

// LoyaltySegments buckets every customer into gold/silver/bronze/none tiers
// by accrued points. Computed over the full customer list; the lounge
// customer base is small enough that a query-side rollup is not worth it.
func (s *StatsService) LoyaltySegments(ctx context.Context) ([]models.LoyaltySegment, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	segments := []models.LoyaltySegment{
		{Segment: "gold", MinPoints: goldMinPoints},
		{Segment: "silver", MinPoints: silverMinPoints},
		{Segment: "bronze", MinPoints: bronzeMinPoints},
		{Segment: "none", MinPoints: 0},
	}
	for _, c := range customers {
		switch {
		case c.LoyaltyPoints >= goldMinPoints:
			segments[0].Customers++
		case c.LoyaltyPoints >= silverMinPoints:
			segments[1].Customers++
		case c.LoyaltyPoints >= bronzeMinPoints:
			segments[2].Customers++
		default:
			segments[3].Customers++
		}
	}
	return segments, nil
}

func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = models.Day(from), models.Day(to)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range end before start", ErrValidation)
	}
	return from, to, nil
}
