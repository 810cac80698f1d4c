package service

import (
	"sync"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/dialog/domain"
)

// Service tracks per-actor conversation flags. Setting a flag replaces any
// previous one, so an actor can never hold two pending actions at once.
type Service struct {
	mu    sync.Mutex
	flags map[int64]domain.Flag
}

// New creates a new conversation state tracker.
func New() *Service {
	return &Service{flags: make(map[int64]domain.Flag)}
}

// Expect marks how the actor's next message should be interpreted.
func (s *Service) Expect(actorID int64, flag domain.Flag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if flag == domain.FlagNone {
		delete(s.flags, actorID)
		return
	}
	s.flags[actorID] = flag
}

// Take returns the actor's pending flag and clears it unconditionally, so no
// failure downstream can leave the actor stuck in a pending state.
func (s *Service) Take(actorID int64) domain.Flag {
	s.mu.Lock()
	defer s.mu.Unlock()
	flag, ok := s.flags[actorID]
	if !ok {
		return domain.FlagNone
	}
	delete(s.flags, actorID)
	return flag
}

// Clear drops any pending flag for the actor.
func (s *Service) Clear(actorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, actorID)
}
