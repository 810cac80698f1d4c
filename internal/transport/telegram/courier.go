package telegram

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"
)

// Courier delivers broadcast payloads through the Telegram API. The payload
// is the admin's original message; text and common media types are re-sent,
// anything else is copied verbatim.
type Courier struct {
	bot *bot.Bot
}

// NewCourier creates a new Telegram courier. The bot is attached later via
// SetBot because the bot itself is constructed after its handlers.
func NewCourier() *Courier {
	return &Courier{}
}

// SetBot sets the Telegram bot instance
func (c *Courier) SetBot(b *bot.Bot) {
	c.bot = b
}

// Deliver sends one payload to one chat. chatID is a canonical channel
// identity: decimal chat ID or @username.
func (c *Courier) Deliver(ctx context.Context, chatID string, payload any) error {
	if c.bot == nil {
		return oops.Errorf("bot not initialized")
	}

	msg, ok := payload.(*models.Message)
	if !ok {
		return oops.Errorf("unsupported payload type %T", payload)
	}

	target := chatIDValue(chatID)

	switch {
	case msg.Text != "":
		_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: target,
			Text:   msg.Text,
		})
		return err

	case len(msg.Photo) > 0:
		// Largest photo size comes last.
		photo := msg.Photo[len(msg.Photo)-1]
		_, err := c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  target,
			Photo:   &models.InputFileString{Data: photo.FileID},
			Caption: msg.Caption,
		})
		return err

	case msg.Video != nil:
		_, err := c.bot.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:  target,
			Video:   &models.InputFileString{Data: msg.Video.FileID},
			Caption: msg.Caption,
		})
		return err

	case msg.Document != nil:
		_, err := c.bot.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:   target,
			Document: &models.InputFileString{Data: msg.Document.FileID},
			Caption:  msg.Caption,
		})
		return err

	case msg.Audio != nil:
		_, err := c.bot.SendAudio(ctx, &bot.SendAudioParams{
			ChatID:  target,
			Audio:   &models.InputFileString{Data: msg.Audio.FileID},
			Caption: msg.Caption,
		})
		return err

	default:
		_, err := c.bot.CopyMessage(ctx, &bot.CopyMessageParams{
			ChatID:     target,
			FromChatID: msg.Chat.ID,
			MessageID:  msg.ID,
		})
		return err
	}
}

// chatIDValue converts a stored channel identity into the form the Telegram
// API expects: int64 for numeric IDs, string for @usernames.
func chatIDValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
