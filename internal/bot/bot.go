// Package bot implements the Telegram transport. It parses commands and
// free-text messages and routes them into the linking service; no domain
// logic lives here.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guberm/SimpleFinTelegramBot/internal/config"
	"github.com/guberm/SimpleFinTelegramBot/internal/service"
)

// Bot wraps the Telegram API connection and the linking service.
type Bot struct {
	api    *tgbotapi.BotAPI
	links  service.Linker
	cfg    *config.Config
	logger *slog.Logger
}

// New authenticates against the Telegram API and returns a ready bot.
func New(cfg *config.Config, links service.Linker, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	logger.Info("authorized on telegram", "username", api.Self.UserName)

	return &Bot{
		api:    api,
		links:  links,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run polls for updates until the context is cancelled. Each update is
// handled as an independent unit of work.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, userID, msg.Command())
		return
	}

	b.handleText(ctx, chatID, userID, msg.Text)
}

func (b *Bot) handleCommand(ctx context.Context, chatID, userID int64, command string) {
	switch command {
	case "start", "help":
		b.reply(chatID, renderHelp())
	case "add":
		b.reply(chatID, renderAdd(b.cfg.SimpleFIN.SetupURL))
	case "accounts", "refresh":
		b.sendAccounts(ctx, chatID, userID)
	case "remove":
		b.sendRemoveMenu(ctx, chatID, userID)
	case "web":
		b.sendWebApp(chatID)
	default:
		b.reply(chatID, renderHelp())
	}
}

// handleText dispatches free text: a numeric reply answers a pending
// removal menu, a setup token starts a link, anything else is ignored.
func (b *Bot) handleText(ctx context.Context, chatID, userID int64, text string) {
	if isOrdinalReply(text) {
		b.completeRemove(ctx, chatID, userID, text)
		return
	}

	if service.IsSetupToken(text) {
		b.linkBank(ctx, chatID, userID, text)
		return
	}
}

func (b *Bot) linkBank(ctx context.Context, chatID, userID int64, token string) {
	b.reply(chatID, "Connecting...")

	link, err := b.links.Link(ctx, userID, token)
	if err != nil {
		b.logger.Warn("link failed", "user_id", userID, "error", err)
		b.reply(chatID, messageForError(err))
		return
	}

	b.reply(chatID, renderLinked(link.BankName))
}

func (b *Bot) sendAccounts(ctx context.Context, chatID, userID int64) {
	results, err := b.links.ListAccounts(ctx, userID)
	if err != nil {
		b.logger.Error("failed to list accounts", "user_id", userID, "error", err)
		b.reply(chatID, messageForError(err))
		return
	}

	if len(results) == 0 {
		b.reply(chatID, "You have no connected banks. Use /add to connect one.")
		return
	}

	b.replyHTML(chatID, renderBankAccounts(results))
}

func (b *Bot) sendRemoveMenu(ctx context.Context, chatID, userID int64) {
	links, err := b.links.StartUnlink(ctx, userID)
	if err != nil {
		b.reply(chatID, messageForError(err))
		return
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(links))
	for i, link := range links {
		label := fmt.Sprintf("%d. %s", i+1, link.BankName)
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, "Select the bank to remove (send the number):")
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) completeRemove(ctx context.Context, chatID, userID int64, selection string) {
	_, err := b.links.CompleteUnlink(ctx, userID, selection)
	if err != nil {
		b.reply(chatID, messageForError(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Bank connection removed.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(msg)
}

func (b *Bot) sendWebApp(chatID int64) {
	button := tgbotapi.InlineKeyboardButton{
		Text:   "Open WebApp",
		WebApp: &tgbotapi.WebAppInfo{URL: b.cfg.Telegram.WebAppURL},
	}

	msg := tgbotapi.NewMessage(chatID, "Click the button to open your SimpleFIN dashboard:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(button))
	b.send(msg)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", "chat_id", msg.ChatID, "error", err)
	}
}
