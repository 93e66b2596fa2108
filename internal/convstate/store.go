package convstate

import "sync"

// Store keeps conversation state in memory, keyed by chat ID. Entries are
// created on first write and never evicted; cardinality is bounded by the
// number of active conversations, which is assumed small.
type Store struct {
	mu     sync.RWMutex
	states map[int64]State
}

func NewStore() *Store {
	return &Store{states: make(map[int64]State)}
}

// Get returns the state for a conversation, or the zero (Unset) state when
// the conversation has never been seen.
func (s *Store) Get(chatID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[chatID]
}

func (s *Store) SetMode(chatID int64, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[chatID]
	state.Mode = mode
	s.states[chatID] = state
}

func (s *Store) SetQuality(chatID int64, quality string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[chatID]
	state.Quality = quality
	s.states[chatID] = state
}

func (s *Store) SetResolution(chatID int64, resolution string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[chatID]
	state.Resolution = resolution
	s.states[chatID] = state
}
