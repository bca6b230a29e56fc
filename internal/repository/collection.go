package repository

import (
	"encoding/json"
	"fmt"

	"agroledger/server/internal/models"
	"agroledger/server/internal/storage"
)

// Collection упорядоченная коллекция записей одного типа, сохраняемая целиком под одним ключом.
// Методы не синхронизированы: вызывать только внутри Ledger.Read / Ledger.Write.
type Collection[T any] struct {
	key   string
	store storage.BlobStore
	items []T
	idOf  func(T) int64
	clone func(T) T
}

func newCollection[T any](key string, store storage.BlobStore, idOf func(T) int64) *Collection[T] {
	return &Collection[T]{key: key, store: store, idOf: idOf}
}

// load читает коллекцию из хранилища. Если ключа нет, коллекция заполняется defaults.
func (c *Collection[T]) load(defaults []T) (seeded bool, err error) {
	raw, ok, err := c.store.Load(c.key)
	if err != nil {
		return false, fmt.Errorf("%w: загрузка %s: %w", models.ErrPersistence, c.key, err)
	}
	if !ok {
		c.items = append([]T(nil), defaults...)
		return len(defaults) > 0, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return false, fmt.Errorf("%w: поврежденные данные %s: %w", models.ErrPersistence, c.key, err)
	}
	c.items = items
	return false, nil
}

// Key имя ключа в хранилище
func (c *Collection[T]) Key() string {
	return c.key
}

// Save сохраняет всю коллекцию
func (c *Collection[T]) Save() error {
	items := c.items
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: сериализация %s: %w", models.ErrPersistence, c.key, err)
	}
	if err := c.store.Save(c.key, string(data)); err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrPersistence, c.key, err)
	}
	return nil
}

// Len количество записей
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Items живой срез записей в порядке добавления. Только для чтения.
func (c *Collection[T]) Items() []T {
	return c.items
}

// All копия записей в порядке добавления
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = c.copyOf(item)
	}
	return out
}

// Index позиция записи с указанным id или -1
func (c *Collection[T]) Index(id int64) int {
	for i, item := range c.items {
		if c.idOf(item) == id {
			return i
		}
	}
	return -1
}

// Get копия записи по id
func (c *Collection[T]) Get(id int64) (T, bool) {
	if i := c.Index(id); i >= 0 {
		return c.copyOf(c.items[i]), true
	}
	var zero T
	return zero, false
}

// At копия записи по позиции
func (c *Collection[T]) At(i int) T {
	return c.copyOf(c.items[i])
}

// Set заменяет запись по позиции
func (c *Collection[T]) Set(i int, item T) {
	c.items[i] = item
}

// Append добавляет запись в конец
func (c *Collection[T]) Append(item T) {
	c.items = append(c.items, item)
}

// RemoveAt удаляет запись по позиции, сохраняя порядок остальных
func (c *Collection[T]) RemoveAt(i int) {
	c.items = append(c.items[:i:i], c.items[i+1:]...)
}

// Snapshot копия состояния для отката
func (c *Collection[T]) Snapshot() []T {
	return c.All()
}

// Restore возвращает состояние из Snapshot
func (c *Collection[T]) Restore(items []T) {
	c.items = items
}

func (c *Collection[T]) maxID() int64 {
	var max int64
	for _, item := range c.items {
		if id := c.idOf(item); id > max {
			max = id
		}
	}
	return max
}

func (c *Collection[T]) copyOf(item T) T {
	if c.clone != nil {
		return c.clone(item)
	}
	return item
}
