package service

import (
	"time"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/stats/domain"
	storeDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/domain"
	storeService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/service"
)

// historyMax bounds the retained dispatch-run history.
const historyMax = 50

// Service accumulates broadcast statistics. Record is called exactly once per
// completed dispatch run, never per channel, and never for an empty run.
type Service struct {
	store *storeService.Store
	now   func() time.Time
}

// New creates a new stats accumulator over the shared store.
func New(store *storeService.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Record folds one dispatch run into the cumulative counters and appends a
// run summary to the bounded history, then persists.
func (s *Service) Record(successCount, totalCount int) {
	now := s.now()
	s.store.Update(func(record *storeDomain.Record) bool {
		record.Stats.TotalBroadcasts++
		record.Stats.SuccessfulDeliveries += successCount
		record.Stats.FailedDeliveries += totalCount - successCount
		record.Stats.LastBroadcastAt = &now

		record.History = append(record.History, domain.RunSummary{
			At:      now,
			Total:   totalCount,
			Success: successCount,
			Failed:  totalCount - successCount,
		})
		if len(record.History) > historyMax {
			record.History = record.History[len(record.History)-historyMax:]
		}
		return true
	})
}

// Snapshot returns the current cumulative counters.
func (s *Service) Snapshot() domain.Stats {
	var stats domain.Stats
	s.store.View(func(record *storeDomain.Record) {
		stats = record.Stats
		if record.Stats.LastBroadcastAt != nil {
			t := *record.Stats.LastBroadcastAt
			stats.LastBroadcastAt = &t
		}
	})
	return stats
}

// History returns a copy of the retained run summaries, oldest first.
func (s *Service) History() []domain.RunSummary {
	var history []domain.RunSummary
	s.store.View(func(record *storeDomain.Record) {
		history = make([]domain.RunSummary, len(record.History))
		copy(history, record.History)
	})
	return history
}
