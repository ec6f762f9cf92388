package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я бот станции контроля деталей.

🔔 Вы подписаны на оповещения: я напишу, если на станции не удалось считать код.

📋 Команды:
/status — состояние станции
/stop — отписаться от оповещений
/help — справка`

	msgHelp = `ℹ️ Бот оповещает операторов линии.

🔴 Когда деталь не удалось распознать за все попытки, станция зажигает красную лампу, а я присылаю сообщение подписанным чатам.

📋 Команды:
/start — подписаться на оповещения
/stop — отписаться
/status — состояние станции`

	msgStopped        = "🔕 Оповещения отключены. Отправьте /start, чтобы подписаться снова."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgNotCommand     = "📋 Я понимаю только команды. Используйте /help для справки."
	msgStorageError   = "⚠️ Не удалось сохранить подписку. Попробуйте позже."
)

// messenger часть Bot API, которой пользуется бот
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot представляет Telegram-бота операторов
type Bot struct {
	api       messenger
	operators port.OperatorRepository
	station   port.StatusProvider
}

// NewBot создаёт нового бота
func NewBot(token string, operators port.OperatorRepository, station port.StatusProvider) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("telegram bot authorized", "account", api.Self.UserName)

	return newBot(api, operators, station), nil
}

func newBot(api messenger, operators port.OperatorRepository, station port.StatusProvider) *Bot {
	return &Bot{
		api:       api,
		operators: operators,
		station:   station,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// NotifyExhausted рассылает оповещение всем подписанным чатам
func (b *Bot) NotifyExhausted(ctx context.Context, outcome entity.CycleOutcome) error {
	chats, err := b.operators.List(ctx)
	if err != nil {
		return fmt.Errorf("list operators: %w", err)
	}

	text := formatExhausted(outcome)
	var errs []error
	for _, chatID := range chats {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgNotCommand)
		return
	}

	log := slog.With("chat_id", msg.Chat.ID, "command", msg.Command())

	switch msg.Command() {
	case "start":
		if err := b.operators.Subscribe(ctx, msg.Chat.ID); err != nil {
			log.Error("failed to subscribe operator", "error", err)
			b.sendMessage(msg.Chat.ID, msgStorageError)
			return
		}
		log.Info("operator subscribed")
		b.sendMessage(msg.Chat.ID, msgStart)

	case "stop":
		if err := b.operators.Unsubscribe(ctx, msg.Chat.ID); err != nil {
			log.Error("failed to unsubscribe operator", "error", err)
			b.sendMessage(msg.Chat.ID, msgStorageError)
			return
		}
		log.Info("operator unsubscribed")
		b.sendMessage(msg.Chat.ID, msgStopped)

	case "status":
		b.sendMessage(msg.Chat.ID, formatStatus(b.station.Status()))

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("failed to send telegram message", "chat_id", chatID, "error", err)
	}
}

var _ port.OperatorNotifier = (*Bot)(nil)
