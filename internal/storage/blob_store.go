package storage

import (
	"sync"
)

// BlobStore ключевое хранилище JSON-строк.
// Каждая коллекция учета хранится целиком под своим ключом.
type BlobStore interface {
	// Load возвращает значение и false, если ключа нет
	Load(key string) (string, bool, error)
	Save(key, value string) error
}

// MemoryStore хранилище в памяти процесса (для тестов и режима без диска)
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore создает пустое хранилище в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Load(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryStore) Save(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}
