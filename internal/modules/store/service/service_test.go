package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/domain"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/repository"
	"github.com/samber/lo"
)

func newTestStore(t *testing.T, seed []int64) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "broadcast.json")
	repo, err := repository.NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	return New(repo, seed), path
}

func TestSeedAdminsWritesDefaultBack(t *testing.T) {
	store, path := newTestStore(t, []int64{1, 2})

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected the default record to be written back immediately: %v", err)
	}

	var admins []int64
	store.View(func(record *domain.Record) {
		admins = append(admins, record.Admins...)
	})
	if len(admins) != 2 || !lo.Contains(admins, int64(1)) || !lo.Contains(admins, int64(2)) {
		t.Fatalf("unexpected seeded admins: %v", admins)
	}
}

func TestSeedAdminsIsAdditive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broadcast.json")
	repo, err := repository.NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	New(repo, []int64{1, 2})

	// Restart with a smaller seed: existing admins must survive.
	reopened := New(repo, []int64{3})
	var admins []int64
	reopened.View(func(record *domain.Record) {
		admins = append(admins, record.Admins...)
	})
	for _, want := range []int64{1, 2, 3} {
		if !lo.Contains(admins, want) {
			t.Fatalf("admin %d missing after restart, got %v", want, admins)
		}
	}
}

func TestUpdateSkipsSaveWhenUnchanged(t *testing.T) {
	store, path := newTestStore(t, nil)

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	store.Update(func(record *domain.Record) bool {
		return false
	})

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("no-op update must not rewrite the record")
	}
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	store, _ := newTestStore(t, nil)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Update(func(record *domain.Record) bool {
				record.Admins = append(record.Admins, id)
				return true
			})
		}(int64(i))
	}
	wg.Wait()

	var admins []int64
	store.View(func(record *domain.Record) {
		admins = append(admins, record.Admins...)
	})
	if len(admins) != writers {
		t.Fatalf("lost updates: got %d admins, want %d", len(admins), writers)
	}
}
