package service

import (
	"log/slog"
	"sync"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/domain"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/repository"
	"github.com/samber/lo"
)

// Store owns the authoritative in-memory record and serializes every
// load-modify-save sequence behind one mutex, so concurrent handlers cannot
// lose updates through a read-modify-write race. A failed save is logged and
// the in-memory state stays authoritative until the next successful save.
type Store struct {
	repo   repository.Repository
	mu     sync.Mutex
	record *domain.Record
}

// New loads the persisted record (or defaults) and seeds the configured admin
// IDs. Seeding is additive only: configuration never removes existing admins.
func New(repo repository.Repository, seedAdmins []int64) *Store {
	record, clean := repo.Load()
	s := &Store{repo: repo, record: record}

	changed := !clean
	for _, id := range seedAdmins {
		if !lo.Contains(record.Admins, id) {
			record.Admins = append(record.Admins, id)
			changed = true
		}
	}

	if changed {
		s.mu.Lock()
		s.persistLocked()
		s.mu.Unlock()
	}

	if keys := record.ExtraKeys(); len(keys) > 0 {
		slog.Info("Record carries unknown fields, preserving them", "keys", keys)
	}

	return s
}

// Update runs mutate under the store lock and persists when it reports a
// change. Return false from mutate to skip the save.
func (s *Store) Update(mutate func(record *domain.Record) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mutate(s.record) {
		s.persistLocked()
	}
}

// View runs read under the store lock. The callback must copy anything it
// wants to keep past the call.
func (s *Store) View(read func(record *domain.Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	read(s.record)
}

func (s *Store) persistLocked() {
	if err := s.repo.Save(s.record); err != nil {
		slog.Error("Failed to persist record, in-memory state remains authoritative", "error", err)
	}
}
