package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Типы событий учета
const (
	TypeFarmerChanged       = "farmer.changed"
	TypePurchaseCreated     = "purchase.created"
	TypeCategoryChanged     = "category.changed"
	TypeInventoryChanged    = "inventory.changed"
	TypeOrderCreated        = "order.created"
	TypeOrderStatusChanged  = "order.status_changed"
	TypePackagingCompleted  = "packaging.completed"
	TypeLowStock            = "stock.low"
	TypeTaxLiabilityCreated = "tax_liability.recorded"
	TypeTaxRateChanged      = "tax_rate.changed"
)

// Event конверт события, одинаковый для Kafka и WebSocket
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Key       string      `json:"key"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// NewEvent создает событие с новым id и текущим временем
func NewEvent(eventType, key string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Key:       key,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

// Publisher получатель событий учета
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher отбрасывает события
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// MultiPublisher рассылает событие всем получателям и собирает ошибки
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
