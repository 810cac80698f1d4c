package telegram

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	dialogDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/dialog/domain"
)

// Callback data values for the inline menus.
const (
	cbMainMenu          = "main_menu"
	cbAddChannel        = "add_channel"
	cbViewChannels      = "view_channels"
	cbBroadcast         = "broadcast"
	cbStats             = "stats"
	cbSettings          = "settings"
	cbRemoveChannelMenu = "remove_channel_menu"
	cbAddAdminMenu      = "add_admin_menu"
	cbRemoveChannel     = "remove_channel_" // prefix, followed by channel ID
)

func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cb.ID,
	})

	msg := cb.Message.Message
	if msg == nil {
		return
	}

	edit := func(text string, markup models.ReplyMarkup) {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			Text:        text,
			ReplyMarkup: markup,
		})
	}

	actorID := cb.From.ID
	if err := h.guard.Authorize(actorID); err != nil {
		edit(textNotAuthorized, nil)
		return
	}

	switch data := cb.Data; {
	case data == cbMainMenu:
		h.dialog.Clear(actorID)
		edit(textMainMenu, mainMenuKeyboard())

	case data == cbAddChannel:
		h.dialog.Expect(actorID, dialogDomain.FlagAwaitingChannel)
		edit(textAddChannelPrompt, nil)

	case data == cbViewChannels:
		h.dialog.Clear(actorID)
		edit(formatChannelList(h.registry.List()), backToMenuKeyboard())

	case data == cbBroadcast:
		count := h.registry.Count()
		if count == 0 {
			edit(textNoChannelsToBroadcast, backToMenuKeyboard())
			return
		}
		h.dialog.Expect(actorID, dialogDomain.FlagAwaitingBroadcast)
		edit(formatBroadcastPrompt(count), nil)

	case data == cbStats:
		h.dialog.Clear(actorID)
		edit(formatStats(h.stats.Snapshot(), h.registry.Count()), backToMenuKeyboard())

	case data == cbSettings:
		h.dialog.Clear(actorID)
		edit(textSettingsMenu, settingsKeyboard())

	case data == cbRemoveChannelMenu:
		channels := h.registry.List()
		if len(channels) == 0 {
			edit(textNoChannelsToRemove, backToSettingsKeyboard())
			return
		}
		edit(textRemoveChannelPrompt, removeChannelKeyboard(channels))

	case strings.HasPrefix(data, cbRemoveChannel):
		channelID := strings.TrimPrefix(data, cbRemoveChannel)
		if err := h.registry.Remove(channelID); err != nil {
			edit(textChannelNotFound, backToSettingsKeyboard())
		} else {
			edit(formatChannelRemoved(channelID), backToSettingsKeyboard())
		}

	case data == cbAddAdminMenu:
		edit(textAddAdminPrompt, backToSettingsKeyboard())
	}
}
