package storage

import (
	"context"
	"sort"
	"sync"

	"station-inspector/internal/domain/port"
)

// MemoryOperatorRepository in-memory хранилище подписок операторов
type MemoryOperatorRepository struct {
	mu    sync.RWMutex
	chats map[int64]struct{}
}

// NewMemoryOperatorRepository создаёт хранилище с начальным набором чатов
func NewMemoryOperatorRepository(chatIDs ...int64) *MemoryOperatorRepository {
	r := &MemoryOperatorRepository{
		chats: make(map[int64]struct{}, len(chatIDs)),
	}
	for _, id := range chatIDs {
		r.chats[id] = struct{}{}
	}
	return r
}

// Subscribe добавляет чат
func (r *MemoryOperatorRepository) Subscribe(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	r.chats[chatID] = struct{}{}
	r.mu.Unlock()

	return nil
}

// Unsubscribe удаляет чат
func (r *MemoryOperatorRepository) Unsubscribe(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.chats, chatID)
	r.mu.Unlock()

	return nil
}

// List возвращает подписанные чаты по возрастанию ID
func (r *MemoryOperatorRepository) List(ctx context.Context) ([]int64, error) {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.chats))
	for id := range r.chats {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Проверка реализации интерфейса
var _ port.OperatorRepository = (*MemoryOperatorRepository)(nil)
