package telegram

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	broadcastDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/broadcast/domain"
	channelDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/domain"
	statsDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/stats/domain"
)

const (
	// Telegram caps inline keyboards, so the removal menu shows at most this
	// many channels.
	removeMenuMax = 50

	// failedListMax bounds the enumerated failures in the final report; the
	// failed count shown is always exact.
	failedListMax = 10

	titleDisplayMax = 20
)

const (
	textMainMenu = "👑 Broadcast Bot Admin Panel\n\nSelect an option:"

	textAccessDenied = "🚫 Access Denied\n\nThis bot is only accessible to administrators."

	textNotAuthorized = "🚫 You are not authorized!"

	textAddChannelPrompt = `➕ Add Broadcast Channel

To add a channel:
1. Add me as Administrator to your channel
2. Send me:
   • Channel @username
   • Channel ID
   OR
   • Forward any message from the channel

I will verify my admin status and add it.`

	textInvalidChannelInput = `❌ Invalid Input

Please send:
• Channel @username
• Channel ID
• Forward a message from the channel`

	textNotChannelAdmin = `❌ Not Admin

I'm not an administrator in that channel.
Please make me admin with necessary permissions.`

	textChannelAddFailed = `❌ Error Adding Channel

Make sure:
1. I'm added to the channel
2. Channel ID/username is correct
3. For private channels, use the numeric ID`

	textNoChannelsToBroadcast = "❌ No channels to broadcast to!\nAdd channels first using '➕ Add Channel'"

	textNoChannels = "📭 No channels added yet."

	textNoChannelsToRemove = "📭 No channels to remove!"

	textRemoveChannelPrompt = "🗑 Remove Channel\n\nSelect a channel to remove:"

	textChannelNotFound = "❌ Channel not found!"

	textSettingsMenu = "⚙️ Settings\n\nManage bot settings:"

	textAddAdminPrompt = "👥 Add Admin\n\nSend me the user ID to add as admin:\n/addadmin 123456789"
)

func mainMenuKeyboard() models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "➕ Add Channel", CallbackData: cbAddChannel}},
			{{Text: "📋 View Channels", CallbackData: cbViewChannels}},
			{{Text: "📢 Broadcast", CallbackData: cbBroadcast}},
			{{Text: "📊 Statistics", CallbackData: cbStats}},
			{{Text: "⚙️ Settings", CallbackData: cbSettings}},
		},
	}
}

func settingsKeyboard() models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "🗑 Remove Channel", CallbackData: cbRemoveChannelMenu}},
			{{Text: "👥 Add Admin", CallbackData: cbAddAdminMenu}},
			{{Text: "« Back to Menu", CallbackData: cbMainMenu}},
		},
	}
}

func backToMenuKeyboard() models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "« Back to Menu", CallbackData: cbMainMenu}},
		},
	}
}

func backToSettingsKeyboard() models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "« Back to Settings", CallbackData: cbSettings}},
		},
	}
}

func removeChannelKeyboard(channels []channelDomain.Channel) models.ReplyMarkup {
	if len(channels) > removeMenuMax {
		channels = channels[:removeMenuMax]
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(channels)+1)
	for _, ch := range channels {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "❌ " + truncateTitle(displayTitle(ch)),
			CallbackData: cbRemoveChannel + ch.ID,
		}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text:         "« Back to Settings",
		CallbackData: cbSettings,
	}})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func formatChannelList(channels []channelDomain.Channel) string {
	if len(channels) == 0 {
		return textNoChannels
	}

	var text strings.Builder
	fmt.Fprintf(&text, "📋 Broadcast Channels (%d)\n\n", len(channels))
	for _, ch := range channels {
		fmt.Fprintf(&text, "• %s - %s\n", ch.ID, displayTitle(ch))
	}
	return text.String()
}

func formatStats(stats statsDomain.Stats, channelCount int) string {
	lastBroadcast := "Never"
	if stats.LastBroadcastAt != nil {
		lastBroadcast = stats.LastBroadcastAt.Format("2006-01-02 15:04:05")
	}

	return fmt.Sprintf(`📊 Bot Statistics

• Total Channels: %d
• Total Broadcasts: %d
• Successful: %d
• Failed: %d
• Last Broadcast: %s`,
		channelCount,
		stats.TotalBroadcasts,
		stats.SuccessfulDeliveries,
		stats.FailedDeliveries,
		lastBroadcast)
}

func formatBroadcastPrompt(channelCount int) string {
	return fmt.Sprintf(`📢 Broadcast Message

Channels: %d

Send me the message you want to broadcast.
I support all message types:
• Text
• Photos
• Videos
• Documents
• etc.`, channelCount)
}

func formatBroadcastStarting(total int) string {
	return fmt.Sprintf("🔄 Starting Broadcast...\n\n• Total channels: %d\n• Status: Preparing", total)
}

func formatBroadcastProgress(processed, total, succeeded, failed int) string {
	return fmt.Sprintf("🔄 Broadcasting...\n\n• Progress: %d/%d\n• Successful: %d\n• Failed: %d",
		processed, total, succeeded, failed)
}

func formatBroadcastReport(report broadcastDomain.Report) string {
	var text strings.Builder
	fmt.Fprintf(&text, "✅ Broadcast Complete!\n\n• Total: %d\n• Success: %d\n• Failed: %d\n• Success Rate: %.1f%%\n",
		report.Total, report.Success, report.FailedCount(), report.SuccessRate())

	if len(report.Failed) > 0 {
		fmt.Fprintf(&text, "\nFailed Channels (%d):\n", report.FailedCount())
		for i, failure := range report.Failed {
			if i == failedListMax {
				fmt.Fprintf(&text, "… and %d more\n", len(report.Failed)-failedListMax)
				break
			}
			fmt.Fprintf(&text, "%d. %s: %s\n", i+1, failure.Title, failure.Reason)
		}
	}

	return text.String()
}

func formatChannelAdded(title, id string, total int) string {
	return fmt.Sprintf("✅ Channel Added Successfully!\n\n• Name: %s\n• ID: %s\n\nTotal channels: %d", title, id, total)
}

func formatChannelExists(title string) string {
	return fmt.Sprintf("⚠️ Channel Already Exists\n\n%s is already in the broadcast list.", title)
}

func formatChannelRemoved(id string) string {
	return fmt.Sprintf("✅ Channel %s removed!", id)
}

func formatVerificationWarning(reason string) string {
	return fmt.Sprintf(`⚠️ Could not verify admin status

Adding channel anyway. Please ensure I'm admin or broadcasts may fail.

Error: %s`, reason)
}

func displayTitle(ch channelDomain.Channel) string {
	if ch.Title != "" {
		return ch.Title
	}
	return "Unknown"
}

// truncateTitle bounds the title by rune count; slicing bytes could cut a
// multibyte rune and hand Telegram invalid UTF-8.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > titleDisplayMax {
		return string(runes[:titleDisplayMax])
	}
	return title
}
