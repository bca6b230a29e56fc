package repository

import (
	"sync"
	"time"
)

// IDGenerator выдает id на основе времени (миллисекунды).
// Каждый следующий id строго больше предыдущего, даже при нескольких вызовах в одну миллисекунду.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator создает генератор. now == nil означает time.Now
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Observe учитывает уже выданный id (после загрузки из хранилища)
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	if id > g.last {
		g.last = id
	}
	g.mu.Unlock()
}

// Next возвращает новый уникальный id
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
