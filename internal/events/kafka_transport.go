package events

import (
	"crypto/tls"
	"crypto/x509"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// kafkaSecurity SASL/PLAIN и TLS для managed Kafka.
// SASL всегда идет поверх TLS; без CA используются системные сертификаты.
func kafkaSecurity(username, password, caCert string) (sasl.Mechanism, *tls.Config) {
	var mechanism sasl.Mechanism
	if username != "" && password != "" {
		mechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
		log.Info().Msgf("🔐 Kafka: SASL/PLAIN аутентификация включена (username: %s)", username)
	}

	tlsConfig := &tls.Config{}
	if caCert != "" {
		pool := x509.NewCertPool()
		if ok := pool.AppendCertsFromPEM([]byte(caCert)); ok {
			tlsConfig.RootCAs = pool
			log.Info().Msg("🔒 Kafka: TLS с CA сертификатом включен")
		} else {
			log.Warn().Msg("⚠️ Kafka: не удалось распарсить CA сертификат, используем системные сертификаты")
		}
	}

	if mechanism == nil && caCert == "" {
		return nil, nil
	}
	return mechanism, tlsConfig
}

// CreateKafkaTransport создает transport для producer с поддержкой SASL/PLAIN и TLS
func CreateKafkaTransport(username, password, caCert string) *kafka.Transport {
	mechanism, tlsConfig := kafkaSecurity(username, password, caCert)
	return &kafka.Transport{
		DialTimeout: 10 * time.Second,
		SASL:        mechanism,
		TLS:         tlsConfig,
	}
}

// CreateKafkaDialer создает dialer для consumer с теми же настройками безопасности
func CreateKafkaDialer(username, password, caCert string) *kafka.Dialer {
	mechanism, tlsConfig := kafkaSecurity(username, password, caCert)
	return &kafka.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		SASLMechanism: mechanism,
		TLS:           tlsConfig,
	}
}

// ParseKafkaBrokers парсит строку с брокерами (может быть через запятую)
func ParseKafkaBrokers(brokers string) []string {
	var result []string
	for _, broker := range strings.Split(strings.ReplaceAll(brokers, " ", ""), ",") {
		if broker != "" {
			result = append(result, broker)
		}
	}
	return result
}
