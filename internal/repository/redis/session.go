package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/session"
	goredis "github.com/redis/go-redis/v9"
)

const defaultSessionKey = "nucleus:attendance:sessions"

// sessionRegistry stores connection sessions in one redis hash so every API instance
// sees the same rosters.
type sessionRegistry struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

// NewSessionRegistry returns a redis-backed attendance.SessionRegistry. The hash expires ttl
// after the last write so sessions of crashed instances do not linger forever.
func NewSessionRegistry(client *goredis.Client, key string, ttl time.Duration) attendance.SessionRegistry {
	if key == "" {
		key = defaultSessionKey
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionRegistry{client: client, key: key, ttl: ttl}
}

// Get implements attendance.SessionRegistry.
func (r *sessionRegistry) Get(ctx context.Context, connectionID string) (attendance.Session, error) {
	raw, err := r.client.HGet(ctx, r.key, connectionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var s attendance.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return attendance.Session{}, fmt.Errorf("failed to decode session %s: %w", connectionID, err)
	}
	return s, nil
}

// Save implements attendance.SessionRegistry.
func (r *sessionRegistry) Save(ctx context.Context, s attendance.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, r.key, s.ConnectionID, raw)
		pipe.Expire(ctx, r.key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete implements attendance.SessionRegistry.
func (r *sessionRegistry) Delete(ctx context.Context, connectionID string) error {
	n, err := r.client.HDel(ctx, r.key, connectionID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return attendance.ErrSessionNotFound
	}
	return nil
}

// List implements attendance.SessionRegistry.
func (r *sessionRegistry) List(ctx context.Context) ([]attendance.Session, error) {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := make([]attendance.Session, 0, len(all))
	for connectionID, raw := range all {
		var s attendance.Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", connectionID, err)
		}
		result = append(result, s)
	}
	session.SortByConnectedAt(result)
	return result, nil
}
