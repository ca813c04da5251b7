package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"pijatku/models"
)

// ErrStaleSearch is returned for a search that was superseded by a newer
// request of the same session. Its result must not be shown.
var ErrStaleSearch = errors.New("search superseded by a newer request")

const sessionIdleTTL = 10 * time.Minute

type searchSession struct {
	latest   uint64
	cancel   context.CancelFunc
	lastSeen time.Time
}

// Sequencer orders search-as-you-type requests per session by sequence number.
// Starting a newer request cancels the in-flight older one, and a request whose
// sequence number is not the newest seen is reported stale.
type Sequencer struct {
	mu       sync.Mutex
	sessions map[string]*searchSession
	now      func() time.Time
}

func NewSequencer() *Sequencer {
	return &Sequencer{sessions: make(map[string]*searchSession), now: time.Now}
}

// SearchFunc runs one search under the context supplied by the Sequencer.
type SearchFunc func(ctx context.Context) ([]models.Therapist, error)

// Run executes search for (session, seq) unless a newer request already began.
func (s *Sequencer) Run(ctx context.Context, session string, seq uint64, search SearchFunc) ([]models.Therapist, error) {
	runCtx, ok := s.begin(ctx, session, seq)
	if !ok {
		return nil, ErrStaleSearch
	}
	result, err := search(runCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.sessions[session]
	if st == nil || st.latest != seq {
		return nil, ErrStaleSearch
	}
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Sequencer) begin(ctx context.Context, session string, seq uint64) (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.prune(now)

	st, exists := s.sessions[session]
	if exists && seq <= st.latest {
		return nil, false
	}
	if !exists {
		st = &searchSession{}
		s.sessions[session] = st
	}
	if st.cancel != nil {
		st.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	st.latest = seq
	st.cancel = cancel
	st.lastSeen = now
	return runCtx, true
}

// prune forgets idle sessions; callers hold s.mu.
func (s *Sequencer) prune(now time.Time) {
	for id, st := range s.sessions {
		if st.cancel == nil && now.Sub(st.lastSeen) > sessionIdleTTL {
			delete(s.sessions, id)
		}
	}
}
