package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/notify"
	"loungepos/internal/redisstore"
	"loungepos/internal/store"
)

// Fallback rates applied when neither station nor game carries one. A policy
// choice, not an error condition.
const (
	defaultHourlyRate = 200.0
	defaultGameRate   = 40.0
)

// SessionsService owns the session lifecycle and charge derivation.
type SessionsService struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger
	cache    *redisstore.Store
	now      func() time.Time
}

// NewSessionsService builds service.
func NewSessionsService(st store.Store, notifier Notifier, logger *zap.Logger) *SessionsService {
	return &SessionsService{
		store:    st,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithCache attaches the redis active-session cache. The cache is optional
// and best-effort; cache errors never fail session transitions.
func (s *SessionsService) WithCache(cache *redisstore.Store) *SessionsService {
	s.cache = cache
	return s
}

// StartSessionInput carries the session-open request.
type StartSessionInput struct {
	StationID      int64
	CustomerID     int64
	GameID         *int64
	SessionType    string
	PlannedMinutes *int
}

// Start opens a session on an available station. The station claim is a
// single conditional update, so concurrent starts on the same station cannot
// both succeed.
func (s *SessionsService) Start(ctx context.Context, input StartSessionInput) (*models.Session, error) {
	if input.SessionType != models.SessionHourly && input.SessionType != models.SessionFixed {
		return nil, fmt.Errorf("%w: unknown session type %q", ErrValidation, input.SessionType)
	}
	if _, err := s.store.GetCustomer(ctx, input.CustomerID); err != nil {
		return nil, fmt.Errorf("customer %d: %w", input.CustomerID, err)
	}
	if input.GameID != nil {
		if _, err := s.store.GetGame(ctx, *input.GameID); err != nil {
			return nil, fmt.Errorf("game %d: %w", *input.GameID, err)
		}
	}

	if err := s.store.ClaimStation(ctx, input.StationID); err != nil {
		return nil, err
	}

	session := &models.Session{
		StationID:      input.StationID,
		CustomerID:     input.CustomerID,
		GameID:         input.GameID,
		SessionType:    input.SessionType,
		Status:         models.SessionActive,
		StartTime:      s.now(),
		PlannedMinutes: input.PlannedMinutes,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		if releaseErr := s.store.ReleaseStation(ctx, input.StationID); releaseErr != nil {
			s.logger.Error("failed to release station after create error", zap.Int64("station_id", input.StationID), zap.Error(releaseErr))
		}
		return nil, err
	}

	if err := s.store.AdjustDailyStat(ctx, session.StartTime, models.StatDelta{ActiveStations: 1, ActiveUsers: 1}); err != nil {
		s.logger.Warn("failed to adjust daily stats on start", zap.Error(err))
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, redisstore.ActiveSession{
			SessionID:   session.ID,
			StationID:   session.StationID,
			CustomerID:  session.CustomerID,
			SessionType: session.SessionType,
			StartTime:   session.StartTime,
		}); err != nil {
			s.logger.Warn("failed to cache active session", zap.Int64("session_id", session.ID), zap.Error(err))
		}
	}

	s.logger.Info("session started",
		zap.Int64("session_id", session.ID),
		zap.Int64("station_id", session.StationID),
		zap.String("type", session.SessionType),
	)
	s.notifier.Broadcast(notify.Event{Type: notify.EventSessionCreated, Data: session})
	return session, nil
}

// End closes an active session: derives the charge, releases the station,
// opens a pending payment and rolls the day's aggregates.
func (s *SessionsService) End(ctx context.Context, sessionID int64) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, store.ErrSessionNotActive
	}

	station, err := s.store.GetStation(ctx, session.StationID)
	if err != nil {
		return nil, err
	}

	endTime := s.now()
	elapsed := endTime.Sub(session.StartTime)
	durationMinutes := int(elapsed.Minutes())
	total, err := s.charge(ctx, session, station, elapsed)
	if err != nil {
		return nil, err
	}

	if err := s.store.CompleteSession(ctx, sessionID, endTime, durationMinutes, total); err != nil {
		return nil, err
	}
	if err := s.store.ReleaseStation(ctx, session.StationID); err != nil {
		s.logger.Error("failed to release station on session end", zap.Int64("station_id", session.StationID), zap.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, session.StationID); err != nil {
			s.logger.Warn("failed to evict cached session", zap.Int64("station_id", session.StationID), zap.Error(err))
		}
	}

	payment := &models.Payment{
		SessionID:  &session.ID,
		CustomerID: &session.CustomerID,
		Amount:     total,
		Method:     models.PaymentPending,
		Status:     models.PaymentStatusPending,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("create pending payment: %w", err)
	}
	s.notifier.Broadcast(notify.Event{Type: notify.EventPaymentCreated, Data: payment})

	if err := s.store.AdjustDailyStat(ctx, endTime, models.StatDelta{
		ActiveStations: -1,
		ActiveUsers:    -1,
		TotalHours:     float64(durationMinutes) / 60,
		TotalRevenue:   total,
	}); err != nil {
		s.logger.Warn("failed to adjust daily stats on end", zap.Error(err))
	}

	session.Status = models.SessionCompleted
	session.EndTime = &endTime
	session.DurationMinutes = &durationMinutes
	session.TotalAmount = &total

	s.logger.Info("session ended",
		zap.Int64("session_id", session.ID),
		zap.Int("duration_minutes", durationMinutes),
		zap.Float64("total", total),
	)
	s.notifier.Broadcast(notify.Event{Type: notify.EventSessionEnded, Data: session})
	return session, nil
}

// charge derives the amount owed for a closing session. Hourly sessions bill
// wall-clock time rounded up to the next whole hour; fixed sessions bill the
// flat per-game price (game price wins over the station rate).
func (s *SessionsService) charge(ctx context.Context, session *models.Session, station *models.Station, elapsed time.Duration) (float64, error) {
	switch session.SessionType {
	case models.SessionFixed:
		if session.GameID != nil {
			game, err := s.store.GetGame(ctx, *session.GameID)
			if err == nil && game.PricePerGame != nil && *game.PricePerGame > 0 {
				return *game.PricePerGame, nil
			}
		}
		if station.RatePerGame != nil && *station.RatePerGame > 0 {
			return *station.RatePerGame, nil
		}
		return defaultGameRate, nil
	case models.SessionHourly:
		rate := station.RatePerHour
		if rate <= 0 {
			rate = defaultHourlyRate
		}
		hours := math.Ceil(elapsed.Minutes() / 60)
		if hours < 0 {
			hours = 0
		}
		return hours * rate, nil
	default:
		return 0, fmt.Errorf("%w: unknown session type %q", ErrValidation, session.SessionType)
	}
}

// Active lists running sessions.
func (s *SessionsService) Active(ctx context.Context, limit int) ([]models.Session, error) {
	return s.store.ListActiveSessions(ctx, limit)
}

// ByCustomer lists a customer's session history.
func (s *SessionsService) ByCustomer(ctx context.Context, customerID int64, limit int) ([]models.Session, error) {
	return s.store.ListSessionsByCustomer(ctx, customerID, limit)
}
