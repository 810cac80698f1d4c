package service

import (
	goerrors "errors"
	"path/filepath"
	"testing"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/domain"
	storeRepo "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/repository"
	storeService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/service"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/errors"
)

func newTestRegistry(t *testing.T) *Service {
	t.Helper()
	repo, err := storeRepo.NewFileStorage(filepath.Join(t.TempDir(), "broadcast.json"))
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	return New(storeService.New(repo, nil))
}

func TestAddIsIdempotentPerIdentity(t *testing.T) {
	registry := newTestRegistry(t)

	if err := registry.Add(domain.Channel{ID: "@news", Title: "@news"}); err != nil {
		t.Fatalf("first add should succeed: %v", err)
	}
	if err := registry.Add(domain.Channel{ID: "@News", Title: "duplicate"}); !goerrors.Is(err, errors.ErrDuplicateChannel) {
		t.Fatalf("err = %v, want ErrDuplicateChannel for same normalized identity", err)
	}
	if err := registry.Add(domain.Channel{ID: "@news", Title: "@news"}); !goerrors.Is(err, errors.ErrDuplicateChannel) {
		t.Fatalf("err = %v, want ErrDuplicateChannel for exact duplicate", err)
	}
	if registry.Count() != 1 {
		t.Fatalf("registry should hold one channel, got %d", registry.Count())
	}
}

func TestAddNormalizesNumericIdentity(t *testing.T) {
	registry := newTestRegistry(t)

	if err := registry.Add(domain.Channel{ID: "-1001234567890", Title: "Private"}); err != nil {
		t.Fatalf("first add should succeed: %v", err)
	}
	if err := registry.Add(domain.Channel{ID: " -1001234567890 ", Title: "Private again"}); !goerrors.Is(err, errors.ErrDuplicateChannel) {
		t.Fatalf("err = %v, want ErrDuplicateChannel for whitespace variant of the same numeric id", err)
	}
}

func TestAddStampsAddedAt(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Add(domain.Channel{ID: "@news", Title: "@news"})
	ch, ok := registry.Get("@news")
	if !ok {
		t.Fatal("expected channel to be present")
	}
	if ch.AddedAt.IsZero() {
		t.Fatal("AddedAt must be stamped on add")
	}
}

func TestRemoveThenGetYieldsNothing(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Add(domain.Channel{ID: "@news", Title: "@news"})
	if err := registry.Remove("@news"); err != nil {
		t.Fatalf("remove of existing channel should succeed: %v", err)
	}
	if _, ok := registry.Get("@news"); ok {
		t.Fatal("removed channel must not be retrievable")
	}
	if err := registry.Remove("@news"); !goerrors.Is(err, errors.ErrChannelNotFound) {
		t.Fatalf("err = %v, want ErrChannelNotFound on second remove", err)
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	registry := newTestRegistry(t)

	ids := []string{"@zeta", "@alpha", "-100200300", "@midway"}
	for _, id := range ids {
		registry.Add(domain.Channel{ID: id, Title: id})
	}

	list := registry.List()
	if len(list) != len(ids) {
		t.Fatalf("expected %d channels, got %d", len(ids), len(list))
	}
	for i, id := range ids {
		if list[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (insertion order must be kept)", i, list[i].ID, id)
		}
	}
}

func TestListIsASnapshot(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Add(domain.Channel{ID: "@news", Title: "@news"})
	snapshot := registry.List()
	registry.Add(domain.Channel{ID: "@other", Title: "@other"})

	if len(snapshot) != 1 {
		t.Fatal("snapshot must not observe later registry edits")
	}
}
