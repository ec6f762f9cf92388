package port

import (
	"context"
	"errors"

	"station-inspector/internal/domain/entity"
)

var (
	// ErrQueueClosed очередь закрыта, сигналов больше не будет
	ErrQueueClosed = errors.New("signal queue is closed")
	// ErrQueueFull сигнал отброшен политикой переполнения
	ErrQueueFull = errors.New("signal queue is full")
)

// SignalQueue ограниченная очередь между приёмом сигналов и циклом обработки
type SignalQueue interface {
	// Push кладёт сигнал в очередь согласно политике переполнения
	Push(ctx context.Context, s entity.Signal) error

	// Pop блокируется до появления сигнала
	Pop(ctx context.Context) (entity.Signal, error)

	Len() int
	Cap() int
}
