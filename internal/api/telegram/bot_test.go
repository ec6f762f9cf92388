package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/infrastructure/storage"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	sent    []sentMessage
	failFor int64
	updates chan tgbotapi.Update
	stopped bool
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	if msg.ChatID == f.failFor {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	f.sent = append(f.sent, sentMessage{chatID: msg.ChatID, text: msg.Text})
	return tgbotapi.Message{}, nil
}

func (f *fakeMessenger) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeMessenger) StopReceivingUpdates() { f.stopped = true }

type fixedStatus entity.StationStatus

func (s fixedStatus) Status() entity.StationStatus { return entity.StationStatus(s) }

func command(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func TestBot_Subscription(t *testing.T) {
	ctx := context.Background()
	api := &fakeMessenger{}
	operators := storage.NewMemoryOperatorRepository()
	bot := newBot(api, operators, fixedStatus{})

	bot.handleMessage(ctx, command(10, "/start"))
	bot.handleMessage(ctx, command(20, "/start"))

	chats, err := operators.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{10, 20}, chats)
	require.Equal(t, msgStart, api.sent[0].text)

	bot.handleMessage(ctx, command(10, "/stop"))
	chats, err = operators.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{20}, chats)
	require.Equal(t, msgStopped, api.sent[2].text)
}

func TestBot_Commands(t *testing.T) {
	ctx := context.Background()
	api := &fakeMessenger{}
	bot := newBot(api, storage.NewMemoryOperatorRepository(), fixedStatus{State: entity.StateIdle, Processed: 5, Succeeded: 4, Exhausted: 1})

	bot.handleMessage(ctx, command(1, "/help"))
	bot.handleMessage(ctx, command(1, "/status"))
	bot.handleMessage(ctx, command(1, "/check"))
	bot.handleMessage(ctx, &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}})

	require.Len(t, api.sent, 4)
	require.Equal(t, msgHelp, api.sent[0].text)
	require.Contains(t, api.sent[1].text, "Обработано: 5")
	require.Equal(t, msgUnknownCommand, api.sent[2].text)
	require.Equal(t, msgNotCommand, api.sent[3].text)
}

func TestBot_NotifyExhausted(t *testing.T) {
	ctx := context.Background()
	api := &fakeMessenger{failFor: 30}
	bot := newBot(api, storage.NewMemoryOperatorRepository(10, 20, 30), fixedStatus{})

	err := bot.NotifyExhausted(ctx, entity.CycleOutcome{
		TraceID:  "abc",
		Signal:   5,
		Station:  "B2",
		State:    entity.StateExhausted,
		Attempts: 3,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "chat 30")

	require.Len(t, api.sent, 2)
	for _, m := range api.sent {
		require.Contains(t, m.text, "Станция B2 (сигнал 5)")
		require.Contains(t, m.text, "abc")
	}
}

func TestBot_RunUntilUpdatesClosed(t *testing.T) {
	api := &fakeMessenger{updates: make(chan tgbotapi.Update, 1)}
	bot := newBot(api, storage.NewMemoryOperatorRepository(), fixedStatus{})

	api.updates <- tgbotapi.Update{Message: command(7, "/start")}

	done := make(chan error, 1)
	go func() { done <- bot.Run(context.Background()) }()

	close(api.updates)
	require.NoError(t, <-done)
	require.True(t, api.stopped)
	require.Equal(t, []sentMessage{{chatID: 7, text: msgStart}}, api.sent)
}

func TestFormatStatus(t *testing.T) {
	sig := entity.Signal(3)
	text := formatStatus(entity.StationStatus{
		State:   entity.StateAttempting,
		Current: &sig,
		LastOutcome: &entity.CycleOutcome{
			State:   entity.StateSuccess,
			Station: "A1",
			Result:  &entity.DetectionResult{Payload: "SN-1", Color: entity.ColorGreen},
		},
	})

	require.Contains(t, text, "идёт проверка (сигнал 3)")
	require.Contains(t, text, `станция A1, код "SN-1", цвет green`)
}
