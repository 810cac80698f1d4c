package service

import (
	"time"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/domain"
	storeDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/domain"
	storeService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/service"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service is the channel registry: an insertion-ordered list of broadcast
// destinations with identity uniqueness enforced on every add.
type Service struct {
	store *storeService.Store
	now   func() time.Time
}

// New creates a new channel registry over the shared store.
func New(store *storeService.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Add registers a channel. It returns ErrDuplicateChannel without mutating
// anything when a channel with the same normalized identity already exists;
// otherwise it stamps AddedAt, appends and persists.
func (s *Service) Add(channel domain.Channel) error {
	added := false
	s.store.Update(func(record *storeDomain.Record) bool {
		exists := lo.ContainsBy(record.Channels, func(c domain.Channel) bool {
			return domain.SameID(c.ID, channel.ID)
		})
		if exists {
			return false
		}
		channel.AddedAt = s.now()
		record.Channels = append(record.Channels, channel)
		added = true
		return true
	})
	if !added {
		return oops.With("channel_id", channel.ID).Wrap(errors.ErrDuplicateChannel)
	}
	return nil
}

// Remove deletes the channel with the given identity. It returns
// ErrChannelNotFound, persisting nothing, when no channel matches.
func (s *Service) Remove(id string) error {
	removed := false
	s.store.Update(func(record *storeDomain.Record) bool {
		kept := lo.Reject(record.Channels, func(c domain.Channel, _ int) bool {
			return domain.SameID(c.ID, id)
		})
		if len(kept) == len(record.Channels) {
			return false
		}
		record.Channels = kept
		removed = true
		return true
	})
	if !removed {
		return oops.With("channel_id", id).Wrap(errors.ErrChannelNotFound)
	}
	return nil
}

// Get returns the first channel matching the identity.
func (s *Service) Get(id string) (domain.Channel, bool) {
	var (
		found   domain.Channel
		present bool
	)
	s.store.View(func(record *storeDomain.Record) {
		for _, c := range record.Channels {
			if domain.SameID(c.ID, id) {
				found = c
				present = true
				return
			}
		}
	})
	return found, present
}

// List returns a snapshot of all channels in insertion order. Broadcasts run
// over such a snapshot, so registry edits during a long run never affect the
// in-flight dispatch.
func (s *Service) List() []domain.Channel {
	var channels []domain.Channel
	s.store.View(func(record *storeDomain.Record) {
		channels = make([]domain.Channel, len(record.Channels))
		copy(channels, record.Channels)
	})
	return channels
}

// Count returns the number of registered channels.
func (s *Service) Count() int {
	count := 0
	s.store.View(func(record *storeDomain.Record) {
		count = len(record.Channels)
	})
	return count
}
