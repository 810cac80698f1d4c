package service

import (
	"path/filepath"
	"testing"

	storeRepo "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/repository"
	storeService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/service"
)

func newTestStats(t *testing.T) *Service {
	t.Helper()
	repo, err := storeRepo.NewFileStorage(filepath.Join(t.TempDir(), "broadcast.json"))
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	return New(storeService.New(repo, nil))
}

func TestRecordAccumulatesOnceDeltas(t *testing.T) {
	stats := newTestStats(t)

	stats.Record(2, 3)

	got := stats.Snapshot()
	if got.TotalBroadcasts != 1 {
		t.Fatalf("total_broadcasts = %d, want 1 (one run = one unit)", got.TotalBroadcasts)
	}
	if got.SuccessfulDeliveries != 2 {
		t.Fatalf("successful_deliveries = %d, want 2", got.SuccessfulDeliveries)
	}
	if got.FailedDeliveries != 1 {
		t.Fatalf("failed_deliveries = %d, want 1", got.FailedDeliveries)
	}
	if got.LastBroadcastAt == nil {
		t.Fatal("last broadcast time must be set")
	}

	stats.Record(5, 5)
	got = stats.Snapshot()
	if got.TotalBroadcasts != 2 || got.SuccessfulDeliveries != 7 || got.FailedDeliveries != 1 {
		t.Fatalf("counters after second run = %+v, want {2 7 1}", got)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	stats := newTestStats(t)

	for i := 0; i < historyMax+10; i++ {
		stats.Record(1, 1)
	}

	history := stats.History()
	if len(history) != historyMax {
		t.Fatalf("history length = %d, want %d", len(history), historyMax)
	}
}

func TestHistoryRecordsRunShape(t *testing.T) {
	stats := newTestStats(t)

	stats.Record(2, 3)

	history := stats.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	run := history[0]
	if run.Total != 3 || run.Success != 2 || run.Failed != 1 {
		t.Fatalf("run summary = %+v, want {3 2 1}", run)
	}
}
