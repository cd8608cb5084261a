package store

import (
	"context"
	"errors"
	"time"

	"loungepos/internal/models"
)

var (
	// ErrNotFound represents a missing row of any entity.
	ErrNotFound = errors.New("not found")
	// ErrStationUnavailable is returned when the conditional claim on a
	// station finds it in any status other than available.
	ErrStationUnavailable = errors.New("station unavailable")
	// ErrSessionNotActive is returned when closing a session that is not active.
	ErrSessionNotActive = errors.New("session not active")
	// ErrPaymentNotPending is returned when completing or failing a payment
	// that already reached a terminal status.
	ErrPaymentNotPending = errors.New("payment not pending")
	// ErrDuplicate is returned on unique-constraint conflicts (operator email).
	ErrDuplicate = errors.New("duplicate")
)

// Store is the persistence contract shared by the Postgres implementation and
// the in-memory one used in tests.
type Store interface {
	// Stations.
	CreateStation(ctx context.Context, station *models.Station) error
	GetStation(ctx context.Context, id int64) (*models.Station, error)
	ListStations(ctx context.Context) ([]models.Station, error)
	// ClaimStation flips available -> active in a single conditional update.
	ClaimStation(ctx context.Context, id int64) error
	ReleaseStation(ctx context.Context, id int64) error
	SetStationMaintenance(ctx context.Context, id int64, reason string, eta *time.Time) error
	ClearStationMaintenance(ctx context.Context, id int64) error
	GetActiveSessionByStation(ctx context.Context, stationID int64) (*models.Session, error)

	// Sessions.
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id int64) (*models.Session, error)
	// CompleteSession writes end time, duration and amount exactly once,
	// guarded on status = active.
	CompleteSession(ctx context.Context, id int64, endTime time.Time, durationMinutes int, totalAmount float64) error
	ListActiveSessions(ctx context.Context, limit int) ([]models.Session, error)
	ListSessionsByCustomer(ctx context.Context, customerID int64, limit int) ([]models.Session, error)

	// Payments.
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	GetPendingPaymentBySession(ctx context.Context, sessionID int64) (*models.Payment, error)
	CompletePayment(ctx context.Context, id int64, method, reference string) error
	FailPayment(ctx context.Context, id int64, reference string) error
	SumCompletedBySession(ctx context.Context, sessionID int64) (float64, error)

	// Customers.
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	AddLoyaltyPoints(ctx context.Context, customerID int64, points int) error

	// Games.
	CreateGame(ctx context.Context, game *models.Game) error
	GetGame(ctx context.Context, id int64) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	UpdateGame(ctx context.Context, game *models.Game) error
	DeleteGame(ctx context.Context, id int64) error

	// Daily stats. Adjust floors counters at zero; Recompute rebuilds the row
	// from the sessions and payments tables.
	GetOrCreateDailyStat(ctx context.Context, date time.Time) (*models.DailyStat, error)
	AdjustDailyStat(ctx context.Context, date time.Time, delta models.StatDelta) error
	RecomputeDailyStat(ctx context.Context, date time.Time) (*models.DailyStat, error)

	// Reporting.
	RevenueRange(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error)
	PaymentMethodBreakdown(ctx context.Context, from, to time.Time) ([]models.MethodBreakdown, error)
	GamePerformanceRange(ctx context.Context, from, to time.Time) ([]models.GamePerformance, error)

	// Operators.
	CreateOperator(ctx context.Context, operator *models.Operator) error
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
}
