// Package memory implements store.Store with in-process maps. It backs the
// service tests and the dev mode that runs without Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"loungepos/internal/models"
	"loungepos/internal/store"
)

type Store struct {
	mu        sync.RWMutex
	stations  map[int64]models.Station
	sessions  map[int64]models.Session
	payments  map[int64]models.Payment
	customers map[int64]models.Customer
	games     map[int64]models.Game
	stats     map[time.Time]models.DailyStat
	operators map[string]models.Operator
	nextID    int64
}

func New() *Store {
	return &Store{
		stations:  make(map[int64]models.Station),
		sessions:  make(map[int64]models.Session),
		payments:  make(map[int64]models.Payment),
		customers: make(map[int64]models.Customer),
		games:     make(map[int64]models.Game),
		stats:     make(map[time.Time]models.DailyStat),
		operators: make(map[string]models.Operator),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Stations.

func (s *Store) CreateStation(_ context.Context, station *models.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	station.ID = s.id()
	station.Status = models.StationAvailable
	station.CreatedAt = now
	station.UpdatedAt = now
	s.stations[station.ID] = *station
	return nil
}

func (s *Store) GetStation(_ context.Context, id int64) (*models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	station, ok := s.stations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &station, nil
}

func (s *Store) ListStations(_ context.Context) ([]models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Station, 0, len(s.stations))
	for _, station := range s.stations {
		out = append(out, station)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ClaimStation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	station, ok := s.stations[id]
	if !ok {
		return store.ErrNotFound
	}
	if station.Status != models.StationAvailable {
		return store.ErrStationUnavailable
	}
	station.Status = models.StationActive
	station.UpdatedAt = time.Now().UTC()
	s.stations[id] = station
	return nil
}

func (s *Store) ReleaseStation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	station, ok := s.stations[id]
	if !ok {
		return store.ErrNotFound
	}
	station.Status = models.StationAvailable
	station.UpdatedAt = time.Now().UTC()
	s.stations[id] = station
	return nil
}

func (s *Store) SetStationMaintenance(_ context.Context, id int64, reason string, eta *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	station, ok := s.stations[id]
	if !ok {
		return store.ErrNotFound
	}
	station.Status = models.StationMaintenance
	station.MaintenanceReason = reason
	station.MaintenanceETA = eta
	station.UpdatedAt = time.Now().UTC()
	s.stations[id] = station
	return nil
}

func (s *Store) ClearStationMaintenance(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	station, ok := s.stations[id]
	if !ok {
		return store.ErrNotFound
	}
	station.Status = models.StationAvailable
	station.MaintenanceReason = ""
	station.MaintenanceETA = nil
	station.UpdatedAt = time.Now().UTC()
	s.stations[id] = station
	return nil
}

func (s *Store) GetActiveSessionByStation(_ context.Context, stationID int64) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.StationID == stationID && sess.Status == models.SessionActive {
			out := sess
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

// Sessions.

func (s *Store) CreateSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	sess.ID = s.id()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *Store) GetSession(_ context.Context, id int64) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) CompleteSession(_ context.Context, id int64, endTime time.Time, durationMinutes int, totalAmount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return store.ErrNotFound
	}
	if sess.Status != models.SessionActive {
		return store.ErrSessionNotActive
	}
	sess.Status = models.SessionCompleted
	sess.EndTime = &endTime
	sess.DurationMinutes = &durationMinutes
	sess.TotalAmount = &totalAmount
	sess.UpdatedAt = time.Now().UTC()
	s.sessions[id] = sess
	return nil
}

func (s *Store) ListActiveSessions(_ context.Context, limit int) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Session
	for _, sess := range s.sessions {
		if sess.Status == models.SessionActive {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListSessionsByCustomer(_ context.Context, customerID int64, limit int) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Session
	for _, sess := range s.sessions {
		if sess.CustomerID == customerID {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Payments.

func (s *Store) CreatePayment(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = s.id()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.payments[p.ID] = *p
	return nil
}

func (s *Store) GetPayment(_ context.Context, id int64) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetPendingPaymentBySession(_ context.Context, sessionID int64) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var oldest *models.Payment
	for id := range s.payments {
		p := s.payments[id]
		if p.SessionID == nil || *p.SessionID != sessionID || p.Status != models.PaymentStatusPending {
			continue
		}
		if oldest == nil || p.CreatedAt.Before(oldest.CreatedAt) || (p.CreatedAt.Equal(oldest.CreatedAt) && p.ID < oldest.ID) {
			copied := p
			oldest = &copied
		}
	}
	if oldest == nil {
		return nil, store.ErrNotFound
	}
	return oldest, nil
}

func (s *Store) CompletePayment(_ context.Context, id int64, method, reference string) error {
	return s.settle(id, models.PaymentStatusCompleted, method, reference)
}

func (s *Store) FailPayment(_ context.Context, id int64, reference string) error {
	return s.settle(id, models.PaymentStatusFailed, "", reference)
}

func (s *Store) settle(id int64, status, method, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Status != models.PaymentStatusPending {
		return store.ErrPaymentNotPending
	}
	p.Status = status
	if method != "" {
		p.Method = method
	}
	if reference != "" {
		p.Reference = reference
	}
	p.UpdatedAt = time.Now().UTC()
	s.payments[id] = p
	return nil
}

func (s *Store) SumCompletedBySession(_ context.Context, sessionID int64) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, p := range s.payments {
		if p.SessionID != nil && *p.SessionID == sessionID && p.Status == models.PaymentStatusCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

// Customers.

func (s *Store) CreateCustomer(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c.ID = s.id()
	c.LoyaltyPoints = 0
	c.CreatedAt = now
	c.UpdatedAt = now
	s.customers[c.ID] = *c
	return nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCustomers(_ context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateCustomer(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.customers[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Name = c.Name
	existing.Phone = c.Phone
	existing.Email = c.Email
	existing.UpdatedAt = time.Now().UTC()
	s.customers[c.ID] = existing
	return nil
}

func (s *Store) DeleteCustomer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) AddLoyaltyPoints(_ context.Context, customerID int64, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return store.ErrNotFound
	}
	c.LoyaltyPoints += points
	c.UpdatedAt = time.Now().UTC()
	s.customers[customerID] = c
	return nil
}

// Games.

func (s *Store) CreateGame(_ context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	g.ID = s.id()
	g.CreatedAt = now
	g.UpdatedAt = now
	s.games[g.ID] = *g
	return nil
}

func (s *Store) GetGame(_ context.Context, id int64) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

func (s *Store) ListGames(_ context.Context) ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateGame(_ context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.games[g.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Name = g.Name
	existing.Genre = g.Genre
	existing.PricePerGame = g.PricePerGame
	existing.UpdatedAt = time.Now().UTC()
	s.games[g.ID] = existing
	return nil
}

func (s *Store) DeleteGame(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.games, id)
	return nil
}

// Daily stats.

func (s *Store) GetOrCreateDailyStat(_ context.Context, date time.Time) (*models.DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := models.Day(date)
	stat, ok := s.stats[day]
	if !ok {
		stat = models.DailyStat{Date: day}
		s.stats[day] = stat
	}
	return &stat, nil
}

func (s *Store) AdjustDailyStat(_ context.Context, date time.Time, delta models.StatDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := models.Day(date)
	stat, ok := s.stats[day]
	if !ok {
		stat = models.DailyStat{Date: day}
	}
	stat.ActiveStations = floorZero(stat.ActiveStations + delta.ActiveStations)
	stat.ActiveUsers = floorZero(stat.ActiveUsers + delta.ActiveUsers)
	stat.TotalHours = floorZeroF(stat.TotalHours + delta.TotalHours)
	stat.TotalRevenue = floorZeroF(stat.TotalRevenue + delta.TotalRevenue)
	s.stats[day] = stat
	return nil
}

func (s *Store) RecomputeDailyStat(_ context.Context, date time.Time) (*models.DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := models.Day(date)
	next := day.Add(24 * time.Hour)
	stat := models.DailyStat{Date: day}
	activeUsers := make(map[int64]struct{})
	for _, sess := range s.sessions {
		switch sess.Status {
		case models.SessionActive:
			if !sess.StartTime.Before(day) && sess.StartTime.Before(next) {
				stat.ActiveStations++
				activeUsers[sess.CustomerID] = struct{}{}
			}
		case models.SessionCompleted:
			if sess.EndTime != nil && !sess.EndTime.Before(day) && sess.EndTime.Before(next) {
				if sess.DurationMinutes != nil {
					stat.TotalHours += float64(*sess.DurationMinutes) / 60
				}
				if sess.TotalAmount != nil {
					stat.TotalRevenue += *sess.TotalAmount
				}
			}
		}
	}
	stat.ActiveUsers = len(activeUsers)
	s.stats[day] = stat
	return &stat, nil
}

// Reporting.

func (s *Store) RevenueRange(_ context.Context, from, to time.Time) ([]models.RevenuePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := models.Day(from), models.Day(to)
	var points []models.RevenuePoint
	for day, stat := range s.stats {
		if day.Before(start) || day.After(end) {
			continue
		}
		points = append(points, models.RevenuePoint{Date: day, Revenue: stat.TotalRevenue})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func (s *Store) PaymentMethodBreakdown(_ context.Context, from, to time.Time) ([]models.MethodBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := models.Day(from)
	end := models.Day(to).Add(24 * time.Hour)
	byMethod := make(map[string]*models.MethodBreakdown)
	for _, p := range s.payments {
		if p.Status != models.PaymentStatusCompleted || p.UpdatedAt.Before(start) || !p.UpdatedAt.Before(end) {
			continue
		}
		b, ok := byMethod[p.Method]
		if !ok {
			b = &models.MethodBreakdown{Method: p.Method}
			byMethod[p.Method] = b
		}
		b.Count++
		b.Total += p.Amount
	}

	out := make([]models.MethodBreakdown, 0, len(byMethod))
	for _, b := range byMethod {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out, nil
}

func (s *Store) GamePerformanceRange(_ context.Context, from, to time.Time) ([]models.GamePerformance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := models.Day(from)
	end := models.Day(to).Add(24 * time.Hour)
	byGame := make(map[int64]*models.GamePerformance)
	for _, sess := range s.sessions {
		if sess.Status != models.SessionCompleted || sess.GameID == nil || sess.EndTime == nil {
			continue
		}
		if sess.EndTime.Before(start) || !sess.EndTime.Before(end) {
			continue
		}
		p, ok := byGame[*sess.GameID]
		if !ok {
			name := ""
			if g, found := s.games[*sess.GameID]; found {
				name = g.Name
			}
			p = &models.GamePerformance{GameID: *sess.GameID, GameName: name}
			byGame[*sess.GameID] = p
		}
		p.Sessions++
		if sess.TotalAmount != nil {
			p.Revenue += *sess.TotalAmount
		}
	}

	out := make([]models.GamePerformance, 0, len(byGame))
	for _, p := range byGame {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sessions > out[j].Sessions })
	return out, nil
}

// Operators.

func (s *Store) CreateOperator(_ context.Context, op *models.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(op.Email))
	if _, ok := s.operators[email]; ok {
		return store.ErrDuplicate
	}
	op.ID = s.id()
	op.Email = email
	op.CreatedAt = time.Now().UTC()
	s.operators[email] = *op
	return nil
}

func (s *Store) GetOperatorByEmail(_ context.Context, email string) (*models.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.operators[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &op, nil
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func floorZeroF(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
