package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-upwork-automation/internal/scraper"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

func formatPay(job scraper.JobRecord) string {
	switch {
	case job.HourlyRate != nil:
		return fmt.Sprintf("$%.2f/hr", *job.HourlyRate)
	case job.Budget != nil:
		return fmt.Sprintf("$%d fixed", *job.Budget)
	default:
		return "N/A"
	}
}

func (b *Bot) SendJob(job scraper.JobRecord) error {
	msgText := fmt.Sprintf("💼 *%s*\n", b.escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(formatPay(job)))

	if job.ExperienceLevel != "" {
		msgText += fmt.Sprintf("🎯 %s\n", b.escapeMarkdown(job.ExperienceLevel))
	}
	if job.Country != "" {
		msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(job.Country))
	}
	if len(job.Skills) > 0 {
		msgText += fmt.Sprintf("🛠 %s\n", b.escapeMarkdown(strings.Join(job.Skills, ", ")))
	}
	// 0 proposals means "unknown" as often as a true zero; only show positives
	if job.Proposals > 0 {
		msgText += fmt.Sprintf("📨 %d proposals\n", job.Proposals)
	}
	if job.PaymentVerified {
		msgText += "✅ Payment verified\n"
	}
	if job.Posted != "" {
		msgText += fmt.Sprintf("📅 %s\n", b.escapeMarkdown(job.Posted))
	}
	if job.Client.Name != "" {
		msgText += fmt.Sprintf("🏢 %s", b.escapeMarkdown(job.Client.Name))
		if job.Client.Rating != "" {
			msgText += fmt.Sprintf(" ⭐ %s", b.escapeMarkdown(job.Client.Rating))
		}
		msgText += "\n"
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.JobURL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
