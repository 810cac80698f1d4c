package telegram

import (
	"context"
	goerrors "errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	adminService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/admin/service"
	broadcastService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/broadcast/service"
	channelDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/domain"
	channelService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/service"
	dialogDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/dialog/domain"
	dialogService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/dialog/service"
	resolverDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/resolver/domain"
	resolverService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/resolver/service"
	statsService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/stats/service"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/config"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/errors"
)

// Handler handles Telegram bot interactions
type Handler struct {
	cfg        *config.Config
	guard      *adminService.Service
	registry   *channelService.Service
	dialog     *dialogService.Service
	resolver   *resolverService.Service
	dispatcher *broadcastService.Dispatcher
	stats      *statsService.Service
}

// New creates a new Telegram handler
func New(
	cfg *config.Config,
	guard *adminService.Service,
	registry *channelService.Service,
	dialog *dialogService.Service,
	resolver *resolverService.Service,
	dispatcher *broadcastService.Dispatcher,
	stats *statsService.Service,
) *Handler {
	return &Handler{
		cfg:        cfg,
		guard:      guard,
		registry:   registry,
		dialog:     dialog,
		resolver:   resolver,
		dispatcher: dispatcher,
		stats:      stats,
	}
}

// RegisterCommands registers bot commands and the callback handler
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addadmin", bot.MatchTypePrefix, h.handleAddAdmin)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, h.handleCallback)
}

// HandleUpdate processes updates not claimed by a registered handler: the
// free-text and media messages routed by conversation state.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.handleMessage(ctx, b, update.Message)
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	actorID := update.Message.From.ID

	if err := h.guard.Authorize(actorID); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   textAccessDenied,
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        textMainMenu,
		ReplyMarkup: mainMenuKeyboard(),
	})
}

func (h *Handler) handleAddAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	actorID := update.Message.From.ID

	if err := h.guard.Authorize(actorID); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   textNotAuthorized,
		})
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Usage: /addadmin <user_id>\nExample: /addadmin 123456789",
		})
		return
	}

	newAdminID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "❌ Invalid user ID: " + parts[1],
		})
		return
	}

	if h.guard.AddAdmin(newAdminID) {
		slog.Info("Admin added", "admin_id", newAdminID, "added_by", actorID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "✅ User " + parts[1] + " is now an admin.",
		})
	} else {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "ℹ️ User " + parts[1] + " is already an admin.",
		})
	}
}

func (h *Handler) handleMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	actorID := msg.From.ID

	if err := h.guard.Authorize(actorID); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   textNotAuthorized,
		})
		return
	}

	// Take clears the flag no matter how the routed operation ends, so the
	// actor can never be stuck awaiting.
	switch h.dialog.Take(actorID) {
	case dialogDomain.FlagAwaitingChannel:
		h.processChannelAddition(ctx, b, msg)
	case dialogDomain.FlagAwaitingBroadcast:
		h.processBroadcast(ctx, b, msg)
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        textMainMenu,
			ReplyMarkup: mainMenuKeyboard(),
		})
	}
}

func (h *Handler) processChannelAddition(ctx context.Context, b *bot.Bot, msg *models.Message) {
	resolution, err := h.resolver.ResolveAndVerify(ctx, resolverInput(msg))
	switch {
	case err == nil:
	case goerrors.Is(err, errors.ErrVerificationUnavailable):
		// Non-fatal: the provisional identity is registered anyway.
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   formatVerificationWarning(resolution.Warning),
		})
	case goerrors.Is(err, errors.ErrUnresolvedInput):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   textInvalidChannelInput,
		})
		return
	case goerrors.Is(err, errors.ErrNotChannelAdmin):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   textNotChannelAdmin,
		})
		return
	default:
		slog.Error("Error resolving channel", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   textChannelAddFailed,
		})
		return
	}

	channel := channelDomain.Channel{
		ID:       resolution.ID,
		Title:    resolution.Title,
		Username: resolution.Username,
	}

	if err := h.registry.Add(channel); goerrors.Is(err, errors.ErrDuplicateChannel) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   formatChannelExists(resolution.Title),
		})
		return
	}

	slog.Info("Channel added", "channel_id", channel.ID, "title", channel.Title, "added_by", msg.From.ID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   formatChannelAdded(resolution.Title, resolution.ID, h.registry.Count()),
	})
}

func (h *Handler) processBroadcast(ctx context.Context, b *bot.Bot, msg *models.Message) {
	// Snapshot the registry up front; edits during the run do not affect it.
	channels := h.registry.List()
	if len(channels) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   textNoChannelsToBroadcast,
		})
		return
	}

	statusMsg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   formatBroadcastStarting(len(channels)),
	})
	if err != nil {
		slog.Error("Failed to send broadcast status message", "error", err)
	}

	progress := func(processed, succeeded, failed int) {
		if statusMsg == nil {
			return
		}
		if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: statusMsg.ID,
			Text:      formatBroadcastProgress(processed, len(channels), succeeded, failed),
		}); err != nil {
			slog.Debug("Failed to update broadcast progress", "error", err)
		}
	}

	report := h.dispatcher.Run(ctx, msg, channels, progress)
	h.stats.Record(report.Success, report.Total)

	summary := formatBroadcastReport(report)
	if statusMsg != nil {
		if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: statusMsg.ID,
			Text:      summary,
		}); err == nil {
			return
		}
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   summary,
	})
}

// resolverInput converts an incoming Telegram message into the transport-free
// resolver input, carrying the forward origin when present.
func resolverInput(msg *models.Message) resolverDomain.Input {
	input := resolverDomain.Input{Text: msg.Text}
	if input.Text == "" {
		input.Text = msg.Caption
	}

	if origin := msg.ForwardOrigin; origin != nil {
		switch origin.Type {
		case models.MessageOriginTypeChannel:
			if origin.MessageOriginChannel != nil {
				input.ForwardChatID = origin.MessageOriginChannel.Chat.ID
				input.ForwardChatKind = resolverDomain.ChatKind(origin.MessageOriginChannel.Chat.Type)
				input.ForwardTitle = origin.MessageOriginChannel.Chat.Title
			}
		case models.MessageOriginTypeChat:
			if origin.MessageOriginChat != nil {
				input.ForwardChatID = origin.MessageOriginChat.SenderChat.ID
				input.ForwardChatKind = resolverDomain.ChatKind(origin.MessageOriginChat.SenderChat.Type)
				input.ForwardTitle = origin.MessageOriginChat.SenderChat.Title
			}
		}
	}

	return input
}
