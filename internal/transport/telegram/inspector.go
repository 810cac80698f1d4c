package telegram

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	resolverDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/resolver/domain"
	"github.com/samber/oops"
)

// Inspector answers channel-verification queries through the Telegram API.
type Inspector struct {
	bot *bot.Bot

	mu     sync.Mutex
	selfID int64
}

// NewInspector creates a new Telegram chat inspector. The bot is attached
// later via SetBot.
func NewInspector() *Inspector {
	return &Inspector{}
}

// SetBot sets the Telegram bot instance
func (i *Inspector) SetBot(b *bot.Bot) {
	i.bot = b
}

// ChatInfo returns the title and username Telegram reports for the chat.
func (i *Inspector) ChatInfo(ctx context.Context, chatID string) (resolverDomain.ChatInfo, error) {
	if i.bot == nil {
		return resolverDomain.ChatInfo{}, oops.Errorf("bot not initialized")
	}

	chat, err := i.bot.GetChat(ctx, &bot.GetChatParams{ChatID: chatIDValue(chatID)})
	if err != nil {
		return resolverDomain.ChatInfo{}, oops.With("channel_id", chatID, "context", "failed to get chat info").Wrap(err)
	}

	return resolverDomain.ChatInfo{
		Title:    chat.Title,
		Username: chat.Username,
	}, nil
}

// SelfRole returns the bot's own membership role in the chat.
func (i *Inspector) SelfRole(ctx context.Context, chatID string) (resolverDomain.Role, error) {
	if i.bot == nil {
		return resolverDomain.RoleNone, oops.Errorf("bot not initialized")
	}

	selfID, err := i.self(ctx)
	if err != nil {
		return resolverDomain.RoleNone, err
	}

	member, err := i.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: chatIDValue(chatID),
		UserID: selfID,
	})
	if err != nil {
		return resolverDomain.RoleNone, oops.With("channel_id", chatID, "context", "failed to get chat member").Wrap(err)
	}

	switch member.Type {
	case models.ChatMemberTypeOwner:
		return resolverDomain.RoleOwner, nil
	case models.ChatMemberTypeAdministrator:
		return resolverDomain.RoleAdministrator, nil
	default:
		return resolverDomain.RoleMember, nil
	}
}

// self returns the bot's own user ID, cached after the first successful
// lookup. A failed lookup is not cached so a transient outage can recover.
func (i *Inspector) self(ctx context.Context) (int64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.selfID != 0 {
		return i.selfID, nil
	}

	me, err := i.bot.GetMe(ctx)
	if err != nil {
		return 0, oops.With("context", "failed to get bot identity").Wrap(err)
	}
	i.selfID = me.ID
	return i.selfID, nil
}
