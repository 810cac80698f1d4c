package service

import (
	"context"
	goerrors "errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	broadcastDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/broadcast/domain"
	channelDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/domain"
	statsService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/stats/service"
	storeRepo "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/repository"
	storeService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/service"
)

type fakeCourier struct {
	failFor map[string]error
	calls   []string
}

func (f *fakeCourier) Deliver(ctx context.Context, chatID string, payload any) error {
	f.calls = append(f.calls, chatID)
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	return nil
}

// blockingCourier waits for the per-call deadline, like an unreachable chat.
type blockingCourier struct{}

func (b *blockingCourier) Deliver(ctx context.Context, chatID string, payload any) error {
	<-ctx.Done()
	return ctx.Err()
}

func channels(ids ...string) []channelDomain.Channel {
	out := make([]channelDomain.Channel, 0, len(ids))
	for _, id := range ids {
		out = append(out, channelDomain.Channel{ID: id, Title: "title-" + id})
	}
	return out
}

func TestRunAccountsPartialFailure(t *testing.T) {
	courier := &fakeCourier{failFor: map[string]error{
		"2": goerrors.New("blocked"),
	}}
	dispatcher := New(courier, 0, 0)

	report := dispatcher.Run(context.Background(), "hi", channels("1", "2", "3"), nil)

	if report.Total != 3 {
		t.Fatalf("total = %d, want 3", report.Total)
	}
	if report.Success != 2 {
		t.Fatalf("success = %d, want 2", report.Success)
	}
	if report.FailedCount() != 1 {
		t.Fatalf("failed = %d, want 1", report.FailedCount())
	}
	failure := report.Failed[0]
	if failure.Title != "title-2" || failure.Reason != "blocked" {
		t.Fatalf("failure = %+v, want {title-2 blocked}", failure)
	}
	if len(courier.calls) != 3 {
		t.Fatalf("one failing channel must not abort the run, delivered %d/3", len(courier.calls))
	}
}

func TestRunFeedsStatsExactlyOnce(t *testing.T) {
	repo, err := storeRepo.NewFileStorage(filepath.Join(t.TempDir(), "broadcast.json"))
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	stats := statsService.New(storeService.New(repo, nil))

	courier := &fakeCourier{failFor: map[string]error{"2": goerrors.New("blocked")}}
	dispatcher := New(courier, 0, 0)

	report := dispatcher.Run(context.Background(), "hi", channels("1", "2", "3"), nil)
	stats.Record(report.Success, report.Total)

	got := stats.Snapshot()
	if got.TotalBroadcasts != 1 || got.SuccessfulDeliveries != 2 || got.FailedDeliveries != 1 {
		t.Fatalf("stats delta = %+v, want {+1 +2 +1}", got)
	}
}

func TestRunProgressCadence(t *testing.T) {
	dispatcher := New(&fakeCourier{}, 0, 0)

	var processedAt []int
	var lastOK, lastFailed int
	progress := func(processed, ok, failed int) {
		processedAt = append(processedAt, processed)
		if ok < lastOK || failed < lastFailed {
			t.Fatalf("progress counts must be monotonically non-decreasing")
		}
		lastOK, lastFailed = ok, failed
	}

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = "ch" + strings.Repeat("x", i)
	}
	dispatcher.Run(context.Background(), "hi", channels(ids...), progress)

	want := []int{5, 10, 12}
	if len(processedAt) != len(want) {
		t.Fatalf("progress calls at %v, want %v", processedAt, want)
	}
	for i := range want {
		if processedAt[i] != want[i] {
			t.Fatalf("progress calls at %v, want %v", processedAt, want)
		}
	}
}

func TestRunFinalChannelAlwaysReported(t *testing.T) {
	dispatcher := New(&fakeCourier{}, 0, 0)

	var processedAt []int
	dispatcher.Run(context.Background(), "hi", channels("1", "2", "3"), func(processed, ok, failed int) {
		processedAt = append(processedAt, processed)
	})

	if len(processedAt) != 1 || processedAt[0] != 3 {
		t.Fatalf("progress calls at %v, want [3]", processedAt)
	}
}

func TestRunEmptySnapshot(t *testing.T) {
	dispatcher := New(&fakeCourier{}, 0, 0)

	called := false
	report := dispatcher.Run(context.Background(), "hi", nil, func(int, int, int) {
		called = true
	})

	if report.Total != 0 || report.Success != 0 || report.FailedCount() != 0 {
		t.Fatalf("empty run report = %+v", report)
	}
	if called {
		t.Fatal("progress must not fire for an empty run")
	}
	if rate := report.SuccessRate(); rate != 0 {
		t.Fatalf("success rate on empty run = %f, want 0 (no division by zero)", rate)
	}
}

func TestRunTruncatesFailureReasons(t *testing.T) {
	long := strings.Repeat("e", 250)
	courier := &fakeCourier{failFor: map[string]error{"1": goerrors.New(long)}}
	dispatcher := New(courier, 0, 0)

	report := dispatcher.Run(context.Background(), "hi", channels("1"), nil)

	if len(report.Failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(report.Failed))
	}
	if len(report.Failed[0].Reason) != reasonMaxLen {
		t.Fatalf("reason length = %d, want %d", len(report.Failed[0].Reason), reasonMaxLen)
	}
}

func TestRunTruncatedReasonKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("канал недоступен 📡 ", 20)
	courier := &fakeCourier{failFor: map[string]error{"1": goerrors.New(long)}}
	dispatcher := New(courier, 0, 0)

	report := dispatcher.Run(context.Background(), "hi", channels("1"), nil)

	if len(report.Failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(report.Failed))
	}
	reason := report.Failed[0].Reason
	if !utf8.ValidString(reason) {
		t.Fatalf("truncated reason is not valid UTF-8: %q", reason)
	}
	if utf8.RuneCountInString(reason) != reasonMaxLen {
		t.Fatalf("reason rune count = %d, want %d", utf8.RuneCountInString(reason), reasonMaxLen)
	}
}

func TestRunTimeoutCountsAsFailure(t *testing.T) {
	dispatcher := New(&blockingCourier{}, 20*time.Millisecond, 0)

	report := dispatcher.Run(context.Background(), "hi", channels("1", "2"), nil)

	if report.Success != 0 || report.FailedCount() != 2 {
		t.Fatalf("report = %+v, want both deliveries timed out", report)
	}
	for _, failure := range report.Failed {
		if !strings.Contains(failure.Reason, "timed out") {
			t.Fatalf("reason = %q, want a timeout reason", failure.Reason)
		}
	}
}

func TestRunParentDeadlineKeepsOriginalReason(t *testing.T) {
	dispatcher := New(&blockingCourier{}, time.Minute, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	report := dispatcher.Run(ctx, "hi", channels("1"), nil)

	if report.FailedCount() != 1 {
		t.Fatalf("failed = %d, want 1", report.FailedCount())
	}
	if strings.Contains(report.Failed[0].Reason, "timed out after") {
		t.Fatalf("reason = %q, an expired parent context must not be reported as the per-delivery timeout", report.Failed[0].Reason)
	}
}

func TestSuccessRate(t *testing.T) {
	report := broadcastDomain.Report{Total: 3, Success: 2}
	if got := report.SuccessRate(); got < 66.6 || got > 66.7 {
		t.Fatalf("success rate = %f, want ~66.7", got)
	}
}
