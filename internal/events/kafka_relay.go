package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// KafkaRelay читает события учета из Kafka и пересылает локальному получателю
// (WebSocket клиентам) события, опубликованные другими экземплярами сервера.
type KafkaRelay struct {
	reader    *kafka.Reader
	source    string
	target    Publisher
	processed int64
	lastLog   int64
}

// NewKafkaRelay создает consumer. У каждого экземпляра своя группа, чтобы получать все события.
func NewKafkaRelay(brokers []string, topic, source string, dialer *kafka.Dialer, target Publisher) *KafkaRelay {
	groupID := "ledger-ws-" + source
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     1 * time.Second,
		Dialer:      dialer,
	})

	log.Info().Msgf("📡 Kafka relay: topic=%s, groupID=%s", topic, groupID)
	return &KafkaRelay{
		reader:  reader,
		source:  source,
		target:  target,
		lastLog: time.Now().Unix(),
	}
}

// Run читает сообщения до отмены контекста
func (r *KafkaRelay) Run(ctx context.Context) {
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info().Msg("🛑 Kafka relay остановлен")
				return
			}
			log.Warn().Err(err).Msg("⚠️ Kafka relay: ошибка чтения")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		r.handle(ctx, msg)
	}
}

func (r *KafkaRelay) handle(ctx context.Context, msg kafka.Message) {
	event, ok := r.decode(msg)
	if !ok {
		return
	}
	if err := r.target.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Msgf("⚠️ Kafka relay: событие %s не доставлено", event.Type)
		return
	}

	processed := atomic.AddInt64(&r.processed, 1)
	now := time.Now().Unix()
	if now-atomic.LoadInt64(&r.lastLog) >= 5 {
		atomic.StoreInt64(&r.lastLog, now)
		log.Debug().Msgf("📊 Kafka relay: переслано %d событий", processed)
	}
}

// decode пропускает собственные события экземпляра и нераспознанные сообщения
func (r *KafkaRelay) decode(msg kafka.Message) (Event, bool) {
	for _, h := range msg.Headers {
		if h.Key == headerSource && string(h.Value) == r.source {
			return Event{}, false
		}
	}
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.Type == "" {
		return Event{}, false
	}
	return event, true
}

// Close закрывает consumer
func (r *KafkaRelay) Close() error {
	return r.reader.Close()
}
