package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smartcampus/copilot/internal/chat"
	"go.uber.org/zap"
)

// Bot is the Telegram front end. It keys profiles and plans by the
// Telegram user ID and routes every message through the chat router.
type Bot struct {
	api    *tgbotapi.BotAPI
	router *chat.Router
	logger *zap.Logger
}

func New(token string, router *chat.Router, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:    api,
		router: router,
		logger: logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	b.route(ctx, message, message.Text)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "events":
		b.route(ctx, message, "what events are happening this week?")
	case "plan":
		b.route(ctx, message, "plan my day")
	case "budget":
		b.route(ctx, message, "how is my budget looking?")
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

// route sends the text through the intent router and replies with the
// composed response.
func (b *Bot) route(ctx context.Context, message *tgbotapi.Message, text string) {
	reply, err := b.router.Reply(ctx, message.From.ID, message.From.FirstName, text)
	if err != nil {
		b.logger.Error("Failed to build reply",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		b.sendMessage(message.Chat.ID, "Sorry, something went wrong. Please try again later.")
		return
	}

	b.sendMessage(message.Chat.ID, reply.Text)
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to Campus Copilot! 🎓
I match campus events to your interests and budget and keep your weekly schedule conflict-free.

Ask me what's happening this week, or use /help to see all commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/events - Events that fit your interests and budget
/plan - Summarize your weekly schedule
/budget - Budget check for the week

You can also just ask in plain words, e.g. "what's happening this week?"`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
