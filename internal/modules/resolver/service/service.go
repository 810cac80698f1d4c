package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/resolver/domain"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/errors"
	"github.com/samber/oops"
)

// warningMaxLen bounds the verification-failure reason attached to a
// best-effort registration.
const warningMaxLen = 100

// Inspector is the messaging-platform side of channel verification.
type Inspector interface {
	ChatInfo(ctx context.Context, chatID string) (domain.ChatInfo, error)
	SelfRole(ctx context.Context, chatID string) (domain.Role, error)
}

// Service resolves raw admin input into a channel identity and verifies the
// bot's send rights there.
type Service struct {
	inspector Inspector
}

// New creates a new channel resolver.
func New(inspector Inspector) *Service {
	return &Service{inspector: inspector}
}

// Resolve extracts a candidate identity from the input, in priority order:
// forwarded-message origin, @mention token, integer literal. It returns
// ErrUnresolvedInput when none of the forms match.
func (s *Service) Resolve(input domain.Input) (domain.Resolution, error) {
	// A forward from a channel or broadcast supergroup is the
	// highest-confidence path; no parsing needed.
	if input.ForwardChatID != 0 &&
		(input.ForwardChatKind == domain.ChatKindChannel || input.ForwardChatKind == domain.ChatKindSupergroup) {
		return domain.Resolution{
			ID:    strconv.FormatInt(input.ForwardChatID, 10),
			Title: input.ForwardTitle,
		}, nil
	}

	text := strings.TrimSpace(input.Text)

	if strings.HasPrefix(text, "@") && len(text) > 1 && !strings.ContainsAny(text, " \t\n") {
		// The mention token serves as both identity and provisional title.
		return domain.Resolution{
			ID:       text,
			Title:    text,
			Username: strings.TrimPrefix(text, "@"),
		}, nil
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return domain.Resolution{
			ID:    strconv.FormatInt(n, 10),
			Title: fmt.Sprintf("Channel %d", n),
		}, nil
	}

	return domain.Resolution{}, errors.ErrUnresolvedInput
}

// Verify checks the bot's role in the candidate chat. An administrator or
// owner role upgrades the resolution with the verified title; an explicit
// insufficient role fails the registration attempt. An unreachable
// verification step returns the resolution with a warning attached alongside
// ErrVerificationUnavailable; callers treat that as non-fatal and register
// the provisional identity anyway, trading consistency for availability: a
// registered channel is not guaranteed deliverable.
func (s *Service) Verify(ctx context.Context, candidate domain.Resolution) (domain.Resolution, error) {
	info, infoErr := s.inspector.ChatInfo(ctx, candidate.ID)
	if infoErr == nil {
		if info.Title != "" {
			candidate.Title = info.Title
		}
		if info.Username != "" {
			candidate.Username = info.Username
		}
	}

	role, roleErr := s.inspector.SelfRole(ctx, candidate.ID)
	if roleErr == nil && !role.CanBroadcast() {
		return domain.Resolution{}, oops.With("channel_id", candidate.ID, "role", string(role)).
			Wrap(errors.ErrNotChannelAdmin)
	}

	if infoErr != nil || roleErr != nil {
		reason := roleErr
		if reason == nil {
			reason = infoErr
		}
		slog.Warn("Could not verify admin status, registering anyway",
			"channel_id", candidate.ID, "error", reason)
		candidate.Warning = truncateWarning(reason.Error())
		return candidate, oops.With("channel_id", candidate.ID, "cause", reason.Error()).
			Wrap(errors.ErrVerificationUnavailable)
	}

	return candidate, nil
}

// ResolveAndVerify runs both steps.
func (s *Service) ResolveAndVerify(ctx context.Context, input domain.Input) (domain.Resolution, error) {
	candidate, err := s.Resolve(input)
	if err != nil {
		return domain.Resolution{}, err
	}
	return s.Verify(ctx, candidate)
}

// truncateWarning bounds the warning by rune count so a multibyte error
// message is never cut mid-rune.
func truncateWarning(reason string) string {
	runes := []rune(reason)
	if len(runes) > warningMaxLen {
		return string(runes[:warningMaxLen])
	}
	return reason
}
