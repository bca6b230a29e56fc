package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Заголовки сообщений с событиями учета
const (
	headerType   = "type"
	headerSource = "source"
)

// KafkaPublisher публикует события учета в топик Kafka.
// Ключ сообщения = Event.Key, поэтому события одной записи попадают в одну партицию.
type KafkaPublisher struct {
	writer *kafka.Writer
	source string
}

// NewKafkaPublisher создает асинхронный producer. source помечает сообщения этого экземпляра сервера.
func NewKafkaPublisher(brokers []string, topic, source string, transport *kafka.Transport) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			if strings.Contains(err.Error(), "Unknown Topic Or Partition") {
				return
			}
			log.Warn().Err(err).Msgf("⚠️ Kafka: не доставлено сообщений: %d", len(messages))
		},
	}
	if transport != nil {
		writer.Transport = transport
	}

	log.Info().Msgf("✅ Kafka producer подключен к %s (топик %s)", strings.Join(brokers, ","), topic)
	return &KafkaPublisher{writer: writer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: сериализация события %s: %w", event.Type, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerType, Value: []byte(event.Type)},
			{Key: headerSource, Value: []byte(p.source)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka: отправка события %s: %w", event.Type, err)
	}
	return nil
}

// Close дожидается отправки буфера и закрывает producer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
