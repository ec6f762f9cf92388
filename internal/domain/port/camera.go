package port

import (
	"context"

	"station-inspector/internal/domain/entity"
)

// Camera источник кадров станции
type Camera interface {
	// Open открывает камеру станции; кадры масштабируются до ширины width
	Open(ctx context.Context, index int, width int) (FrameSource, error)
}

// FrameSource открытый поток кадров
type FrameSource interface {
	// Read возвращает следующий кадр
	Read(ctx context.Context) (entity.Frame, error)

	// Close освобождает устройство
	Close() error
}
