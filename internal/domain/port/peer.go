package port

import (
	"context"

	"station-inspector/internal/domain/entity"
)

// Indicator управляет сигнальными лампами на соседнем узле
type Indicator interface {
	// SetLamp отправляет команду без подтверждения доставки
	SetLamp(ctx context.Context, cmd entity.IndicatorCommand) error
}

// Reporter отправляет отчёты в MES
type Reporter interface {
	// SendReport отправляет отчёт без подтверждения доставки
	SendReport(ctx context.Context, report entity.Report) error
}

// Connector исходящее соединение, которое нужно установить до старта цикла
type Connector interface {
	Name() string

	// Connect блокируется до успешного подключения или отмены контекста
	Connect(ctx context.Context) error
}
