package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"station-inspector/internal/domain/entity"
	"station-inspector/internal/domain/port"
)

var (
	ErrQueueFull   = port.ErrQueueFull
	ErrQueueClosed = port.ErrQueueClosed
)

// OverflowPolicy поведение Push при заполненной очереди
type OverflowPolicy string

const (
	// PolicyBlock ждёт свободного места, отправитель получает backpressure
	PolicyBlock OverflowPolicy = "block"
	// PolicyDrop отбрасывает сигнал и пишет предупреждение
	PolicyDrop OverflowPolicy = "drop"
)

// ParseOverflowPolicy разбирает имя политики
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(s) {
	case PolicyBlock, PolicyDrop:
		return OverflowPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown queue policy %q", s)
	}
}

// SignalQueue ограниченная очередь сигналов поверх буферизованного канала
type SignalQueue struct {
	ch      chan entity.Signal
	policy  OverflowPolicy
	closed  chan struct{}
	once    atomic.Bool
	dropped atomic.Uint64
}

// NewSignalQueue создаёт очередь фиксированной ёмкости
func NewSignalQueue(capacity int, policy OverflowPolicy) (*SignalQueue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("queue capacity must be positive, got %d", capacity)
	}
	if _, err := ParseOverflowPolicy(string(policy)); err != nil {
		return nil, err
	}

	return &SignalQueue{
		ch:     make(chan entity.Signal, capacity),
		policy: policy,
		closed: make(chan struct{}),
	}, nil
}

// Push кладёт сигнал. При PolicyBlock ждёт места или отмены ctx,
// при PolicyDrop сразу возвращает ErrQueueFull.
func (q *SignalQueue) Push(ctx context.Context, s entity.Signal) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}

	if q.policy == PolicyDrop {
		select {
		case q.ch <- s:
			return nil
		default:
			q.dropped.Add(1)
			slog.Warn("signal queue full, dropping signal",
				"signal", s,
				"capacity", cap(q.ch),
				"dropped_total", q.dropped.Load(),
			)
			return ErrQueueFull
		}
	}

	select {
	case q.ch <- s:
		return nil
	case <-q.closed:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop ждёт следующий сигнал
func (q *SignalQueue) Pop(ctx context.Context) (entity.Signal, error) {
	select {
	case s := <-q.ch:
		return s, nil
	case <-q.closed:
		return 0, ErrQueueClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close будит всех ожидающих; повторный вызов безопасен
func (q *SignalQueue) Close() {
	if q.once.CompareAndSwap(false, true) {
		close(q.closed)
	}
}

func (q *SignalQueue) Len() int { return len(q.ch) }
func (q *SignalQueue) Cap() int { return cap(q.ch) }

// Policy текущая политика переполнения
func (q *SignalQueue) Policy() OverflowPolicy { return q.policy }

// Dropped число отброшенных сигналов
func (q *SignalQueue) Dropped() uint64 { return q.dropped.Load() }

var _ port.SignalQueue = (*SignalQueue)(nil)
