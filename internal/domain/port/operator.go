package port

import (
	"context"

	"station-inspector/internal/domain/entity"
)

// OperatorNotifier оповещает операторов о станциях, где код не найден
type OperatorNotifier interface {
	NotifyExhausted(ctx context.Context, outcome entity.CycleOutcome) error
}

// OperatorRepository хранилище подписанных на оповещения чатов
type OperatorRepository interface {
	// Subscribe добавляет чат, повторная подписка не ошибка
	Subscribe(ctx context.Context, chatID int64) error

	// Unsubscribe удаляет чат
	Unsubscribe(ctx context.Context, chatID int64) error

	// List возвращает все подписанные чаты
	List(ctx context.Context) ([]int64, error)
}

// StatusProvider отдаёт снимок состояния станции
type StatusProvider interface {
	Status() entity.StationStatus
}
