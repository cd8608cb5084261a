package postgres

import (
	"context"
	"time"

	"loungepos/internal/models"
)

// GetOrCreateDailyStat returns the row for the given date, inserting a zeroed
// one if absent.
func (s *Store) GetOrCreateDailyStat(ctx context.Context, date time.Time) (*models.DailyStat, error) {
	const query = `
		INSERT INTO daily_stats (stat_date, active_stations, active_users, total_hours, total_revenue)
		VALUES ($1, 0, 0, 0, 0)
		ON CONFLICT (stat_date) DO UPDATE SET stat_date = EXCLUDED.stat_date
		RETURNING stat_date, active_stations, active_users, total_hours, total_revenue
	`
	var stat models.DailyStat
	err := s.db.QueryRowContext(ctx, query, models.Day(date)).Scan(
		&stat.Date,
		&stat.ActiveStations,
		&stat.ActiveUsers,
		&stat.TotalHours,
		&stat.TotalRevenue,
	)
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// AdjustDailyStat applies a signed delta in one upsert statement so concurrent
// session transitions cannot lose updates. Counters floor at zero.
func (s *Store) AdjustDailyStat(ctx context.Context, date time.Time, delta models.StatDelta) error {
	const query = `
		INSERT INTO daily_stats (stat_date, active_stations, active_users, total_hours, total_revenue)
		VALUES ($1, GREATEST($2, 0), GREATEST($3, 0), GREATEST($4, 0), GREATEST($5, 0))
		ON CONFLICT (stat_date) DO UPDATE SET
			active_stations = GREATEST(daily_stats.active_stations + $2, 0),
			active_users    = GREATEST(daily_stats.active_users + $3, 0),
			total_hours     = GREATEST(daily_stats.total_hours + $4, 0),
			total_revenue   = GREATEST(daily_stats.total_revenue + $5, 0)
	`
	_, err := s.db.ExecContext(ctx, query,
		models.Day(date),
		delta.ActiveStations,
		delta.ActiveUsers,
		delta.TotalHours,
		delta.TotalRevenue,
	)
	return err
}

// RecomputeDailyStat rebuilds the row for one date from the sessions table,
// treating the incremental counters as an invalidatable cache.
func (s *Store) RecomputeDailyStat(ctx context.Context, date time.Time) (*models.DailyStat, error) {
	day := models.Day(date)
	next := day.Add(24 * time.Hour)

	const query = `
		INSERT INTO daily_stats (stat_date, active_stations, active_users, total_hours, total_revenue)
		SELECT
			$1,
			(SELECT COUNT(*) FROM sessions WHERE status = 'active' AND start_time >= $1 AND start_time < $2),
			(SELECT COUNT(DISTINCT customer_id) FROM sessions WHERE status = 'active' AND start_time >= $1 AND start_time < $2),
			(SELECT COALESCE(SUM(duration_minutes), 0) / 60.0 FROM sessions WHERE status = 'completed' AND end_time >= $1 AND end_time < $2),
			(SELECT COALESCE(SUM(total_amount), 0) FROM sessions WHERE status = 'completed' AND end_time >= $1 AND end_time < $2)
		ON CONFLICT (stat_date) DO UPDATE SET
			active_stations = EXCLUDED.active_stations,
			active_users    = EXCLUDED.active_users,
			total_hours     = EXCLUDED.total_hours,
			total_revenue   = EXCLUDED.total_revenue
		RETURNING stat_date, active_stations, active_users, total_hours, total_revenue
	`
	var stat models.DailyStat
	err := s.db.QueryRowContext(ctx, query, day, next).Scan(
		&stat.Date,
		&stat.ActiveStations,
		&stat.ActiveUsers,
		&stat.TotalHours,
		&stat.TotalRevenue,
	)
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// RevenueRange returns daily revenue between two dates inclusive.
func (s *Store) RevenueRange(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error) {
	const query = `
		SELECT stat_date, total_revenue
		FROM daily_stats
		WHERE stat_date >= $1 AND stat_date <= $2
		ORDER BY stat_date
	`
	rows, err := s.db.QueryContext(ctx, query, models.Day(from), models.Day(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.RevenuePoint
	for rows.Next() {
		var p models.RevenuePoint
		if err := rows.Scan(&p.Date, &p.Revenue); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// PaymentMethodBreakdown aggregates completed payments per method.
func (s *Store) PaymentMethodBreakdown(ctx context.Context, from, to time.Time) ([]models.MethodBreakdown, error) {
	const query = `
		SELECT method, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = 'completed' AND updated_at >= $1 AND updated_at < $2
		GROUP BY method
		ORDER BY method
	`
	rows, err := s.db.QueryContext(ctx, query, models.Day(from), models.Day(to).Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []models.MethodBreakdown
	for rows.Next() {
		var b models.MethodBreakdown
		if err := rows.Scan(&b.Method, &b.Count, &b.Total); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// GamePerformanceRange aggregates completed sessions per game.
func (s *Store) GamePerformanceRange(ctx context.Context, from, to time.Time) ([]models.GamePerformance, error) {
	const query = `
		SELECT g.id, g.name, COUNT(se.id), COALESCE(SUM(se.total_amount), 0)
		FROM games g
		JOIN sessions se ON se.game_id = g.id
		WHERE se.status = 'completed' AND se.end_time >= $1 AND se.end_time < $2
		GROUP BY g.id, g.name
		ORDER BY COUNT(se.id) DESC
	`
	rows, err := s.db.QueryContext(ctx, query, models.Day(from), models.Day(to).Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perf []models.GamePerformance
	for rows.Next() {
		var p models.GamePerformance
		if err := rows.Scan(&p.GameID, &p.GameName, &p.Sessions, &p.Revenue); err != nil {
			return nil, err
		}
		perf = append(perf, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perf, nil
}
