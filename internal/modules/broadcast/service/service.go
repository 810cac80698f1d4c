package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	broadcastDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/broadcast/domain"
	channelDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/domain"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

const (
	// progressEvery is the reporting cadence: every Nth channel and always
	// the final one.
	progressEvery = 5

	// reasonMaxLen bounds recorded failure reasons.
	reasonMaxLen = 100
)

// Courier delivers one opaque payload to one chat. Implemented by the
// Telegram transport; faked in tests.
type Courier interface {
	Deliver(ctx context.Context, chatID string, payload any) error
}

// Progress receives running totals during a dispatch run. Counts are
// monotonically non-decreasing across calls.
type Progress func(processed, succeeded, failed int)

// Dispatcher fans one message out to a snapshot of the channel registry,
// sequentially, without retries. One failing channel never aborts the run.
type Dispatcher struct {
	courier Courier
	timeout time.Duration
	limiter *rate.Limiter
}

// New creates a dispatcher. timeout bounds each individual delivery attempt
// so one unreachable channel cannot stall the whole run; ratePerSec throttles
// deliveries when positive (0 means unpaced).
func New(courier Courier, timeout time.Duration, ratePerSec int) *Dispatcher {
	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return &Dispatcher{
		courier: courier,
		timeout: timeout,
		limiter: limiter,
	}
}

// Run delivers payload to every channel in the snapshot and returns the
// accounting. progress may be nil.
func (d *Dispatcher) Run(ctx context.Context, payload any, channels []channelDomain.Channel, progress Progress) broadcastDomain.Report {
	report := broadcastDomain.Report{
		Total:  len(channels),
		Failed: []broadcastDomain.Failure{},
	}

	start := time.Now()
	for i, channel := range channels {
		if err := d.deliver(ctx, channel.ID, payload); err != nil {
			slog.Error("Failed to deliver to channel",
				"channel_id", channel.ID, "title", channel.Title, "error", err)
			report.Failed = append(report.Failed, broadcastDomain.Failure{
				Title:  failureTitle(channel),
				Reason: truncateReason(err.Error()),
			})
		} else {
			report.Success++
		}

		if progress != nil && ((i+1)%progressEvery == 0 || i == len(channels)-1) {
			progress(i+1, report.Success, len(report.Failed))
		}
	}

	if report.Total > 0 {
		slog.Info("Dispatch run finished",
			"total", report.Total,
			"success", report.Success,
			"failed", report.FailedCount(),
			"duration", time.Since(start))
	}

	return report
}

func (d *Dispatcher) deliver(ctx context.Context, chatID string, payload any) error {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return oops.With("channel_id", chatID).Wrap(err)
		}
	}

	callCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := d.courier.Deliver(callCtx, chatID, payload)
	// Label only the per-call timeout; a deadline inherited from the parent
	// context is reported as-is.
	if err != nil && errors.Is(err, context.DeadlineExceeded) && d.timeout > 0 && ctx.Err() == nil {
		return oops.Errorf("delivery timed out after %s", d.timeout)
	}
	return err
}

func failureTitle(channel channelDomain.Channel) string {
	if channel.Title != "" {
		return channel.Title
	}
	return "ID: " + channel.ID
}

// truncateReason bounds the reason by rune count so a multibyte error
// message is never cut mid-rune.
func truncateReason(reason string) string {
	runes := []rune(reason)
	if len(runes) > reasonMaxLen {
		return string(runes[:reasonMaxLen])
	}
	return reason
}
