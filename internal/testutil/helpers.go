package testutil

import (
	"context"
	"sync"
)

// StubFetcher serves canned AWBW bodies by map id and counts calls.
type StubFetcher struct {
	mu     sync.Mutex
	Bodies map[int][]byte
	Err    error
	Calls  int
}

// FetchMap returns the canned body for id, or Err.
func (s *StubFetcher) FetchMap(ctx context.Context, id int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if b, ok := s.Bodies[id]; ok {
		return b, nil
	}
	return []byte(`{"err": true, "message": "No map matches given ID"}`), nil
}
