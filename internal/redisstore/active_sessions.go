// Package redisstore caches the station -> active session mapping so the
// floor dashboard can poll it without hitting Postgres. The cache is
// best-effort; Postgres stays the source of truth.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActiveSession is the cached view of a running session.
type ActiveSession struct {
	SessionID   int64     `json:"session_id"`
	StationID   int64     `json:"station_id"`
	CustomerID  int64     `json:"customer_id"`
	SessionType string    `json:"session_type"`
	StartTime   time.Time `json:"start_time"`
}

// Store manages the active session cache.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(stationID int64) string {
	return fmt.Sprintf("sessions:active:%d", stationID)
}

// Save caches a session under its station.
func (s *Store) Save(ctx context.Context, session ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.StationID), data, s.ttl).Err()
}

// Get returns the cached session for a station, nil when the station is idle
// or the entry expired.
func (s *Store) Get(ctx context.Context, stationID int64) (*ActiveSession, error) {
	result, err := s.client.Get(ctx, s.key(stationID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var session ActiveSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete evicts the cached session for a station.
func (s *Store) Delete(ctx context.Context, stationID int64) error {
	return s.client.Del(ctx, s.key(stationID)).Err()
}
