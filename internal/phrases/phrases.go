package phrases

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"liftops-cloud/internal/cache"
)

// Phrase ids used by the view engine.
const (
	PhraseHighAlarm = 611
	PhraseLowAlarm  = 612
)

const defaultTable = "locale_phrases"

// Store looks up localized phrases with a fixed 24-hour cache in front.
type Store struct {
	db    *sql.DB
	cache *cache.TTLCache
}

// NewStore constructs a phrase store.
func NewStore(db *sql.DB, valueCache *cache.TTLCache) (*Store, error) {
	if db == nil {
		return nil, errors.New("phrases: nil db")
	}
	if valueCache == nil {
		valueCache = cache.New(cache.DefaultTTL)
	}
	return &Store{db: db, cache: valueCache}, nil
}

// Lookup returns the phrase text for an id, or the fallback when absent or
// the store fails. Phrase lookups never abort a request.
func (s *Store) Lookup(ctx context.Context, phraseID int, fallback string) string {
	if s == nil || s.db == nil {
		return fallback
	}
	key := "phrase:" + strconv.Itoa(phraseID)
	if value, ok := s.cache.Get(key); ok {
		return value
	}

	var text string
	err := s.db.QueryRowContext(ctx, `SELECT text FROM `+defaultTable+` WHERE phrase_id = $1`, phraseID).Scan(&text)
	if err != nil {
		return fallback
	}
	s.cache.Set(key, text)
	return text
}
