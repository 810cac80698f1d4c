package service

import (
	storeDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/domain"
	storeService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/service"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service is the authorization guard: a membership check against the
// persisted admin set. Every entry point must pass Authorize before doing
// anything else.
type Service struct {
	store *storeService.Store
}

// New creates a new authorization guard over the shared store.
func New(store *storeService.Store) *Service {
	return &Service{store: store}
}

// IsAdmin reports whether the actor is in the admin set.
func (s *Service) IsAdmin(actorID int64) bool {
	admin := false
	s.store.View(func(record *storeDomain.Record) {
		admin = lo.Contains(record.Admins, actorID)
	})
	return admin
}

// Authorize returns ErrUnauthorized when the actor is not in the admin set.
func (s *Service) Authorize(actorID int64) error {
	if !s.IsAdmin(actorID) {
		return oops.With("actor_id", actorID).Wrap(errors.ErrUnauthorized)
	}
	return nil
}

// AddAdmin adds an actor to the admin set. It returns false without
// persisting when the actor is already an admin. The set never shrinks.
func (s *Service) AddAdmin(actorID int64) bool {
	added := false
	s.store.Update(func(record *storeDomain.Record) bool {
		if lo.Contains(record.Admins, actorID) {
			return false
		}
		record.Admins = append(record.Admins, actorID)
		added = true
		return true
	})
	return added
}

// Admins returns a copy of the admin set.
func (s *Service) Admins() []int64 {
	var admins []int64
	s.store.View(func(record *storeDomain.Record) {
		admins = make([]int64, len(record.Admins))
		copy(admins, record.Admins)
	})
	return admins
}
