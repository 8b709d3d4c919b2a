package settings

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"liftops-cloud/internal/cache"
	"liftops-cloud/internal/observability/metrics"
)

// Well-known system parameter keys.
const (
	KeyTagMatchPolicy    = "FacilityTagMatchPolicy"
	KeyShowValueWithText = "FacilityTagShowValueWithText"
)

const defaultTable = "system_parameters"

// Store reads system parameters with a fixed 24-hour cache in front.
type Store struct {
	db    *sql.DB
	cache *cache.TTLCache
}

// NewStore constructs a settings store.
func NewStore(db *sql.DB, valueCache *cache.TTLCache) (*Store, error) {
	if db == nil {
		return nil, errors.New("settings: nil db")
	}
	if valueCache == nil {
		valueCache = cache.New(cache.DefaultTTL)
	}
	return &Store{db: db, cache: valueCache}, nil
}

// Get returns a system parameter value, empty when absent.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("settings: nil store")
	}
	if key == "" {
		return "", errors.New("settings: empty key")
	}
	if value, ok := s.cache.Get(key); ok {
		metrics.IncCacheHit()
		return value, nil
	}
	metrics.IncCacheMiss()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM `+defaultTable+` WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s.cache.Set(key, value)
	return value, nil
}

// GetInt returns an integer parameter, or the fallback on absence or parse
// failure.
func (s *Store) GetInt(ctx context.Context, key string, fallback int) int {
	value, err := s.Get(ctx, key)
	if err != nil || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetBool returns a boolean parameter, or the fallback on absence or parse
// failure.
func (s *Store) GetBool(ctx context.Context, key string, fallback bool) bool {
	value, err := s.Get(ctx, key)
	if err != nil || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// TagMatchPolicy reads the facility-tag matching policy setting.
func (s *Store) TagMatchPolicy(ctx context.Context) int {
	return s.GetInt(ctx, KeyTagMatchPolicy, 0)
}

// ShowValueWithText reads the status-reading suffix setting.
func (s *Store) ShowValueWithText(ctx context.Context) bool {
	return s.GetBool(ctx, KeyShowValueWithText, false)
}
