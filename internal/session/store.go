// Package session keeps the map each user last loaded. An entry expires a
// fixed time after its last Set; a later Set for the same user replaces the
// entry and restarts the clock.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
)

// DefaultTTL is how long a loaded map stays available.
const DefaultTTL = 300 * time.Second

// Entry is a stored map and the time it was stored.
type Entry struct {
	Map     *awmap.Map
	Updated time.Time

	token uint64
}

// Store maps user ids to their loaded map. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]Entry
	timers  map[string]*time.Timer
	seq     uint64
	now     func() time.Time
	logger  zerolog.Logger
}

// NewStore creates a store whose entries expire after ttl. A ttl of zero or
// less uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]Entry),
		timers:  make(map[string]*time.Timer),
		now:     time.Now,
		logger:  log.With().Str("component", "session_store").Logger(),
	}
}

// TTL returns the expiry applied to new entries.
func (s *Store) TTL() time.Duration { return s.ttl }

// Set stores m for user, taking ownership of it, and returns the entry's
// timestamp.
func (s *Store) Set(user string, m *awmap.Map) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e := Entry{Map: m, Updated: s.now(), token: s.seq}
	s.entries[user] = e

	if t, ok := s.timers[user]; ok {
		t.Stop()
	}
	token := e.token
	s.timers[user] = time.AfterFunc(s.ttl, func() { s.expire(user, token) })

	s.logger.Debug().
		Str("user", user).
		Int("width", m.Width).
		Int("height", m.Height).
		Msg("Map stored for user")
	return e.Updated
}

// Get returns the map stored for user.
func (s *Store) Get(user string) (*awmap.Map, bool) {
	e, ok := s.Entry(user)
	return e.Map, ok
}

// Entry returns the full entry stored for user.
func (s *Store) Entry(user string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[user]
	return e, ok
}

// Delete drops the entry for user, if any.
func (s *Store) Delete(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(user)
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops every pending expiry and empties the store.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for user := range s.entries {
		s.drop(user)
	}
}

// expire removes user's entry only if it is still the one that scheduled
// this expiry.
func (s *Store) expire(user string, token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[user]
	if !ok || e.token != token {
		return
	}
	s.drop(user)
	s.logger.Debug().Str("user", user).Msg("Stored map expired")
}

func (s *Store) drop(user string) {
	if t, ok := s.timers[user]; ok {
		t.Stop()
		delete(s.timers, user)
	}
	delete(s.entries, user)
}
