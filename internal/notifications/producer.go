package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// ProducerConfig contains configuration for the Kafka audit producer
type ProducerConfig struct {
	Brokers         []string
	ThresholdTopic  string
	RetryMax        int
	TimeoutMs       int
	RequiredAcks    sarama.RequiredAcks
	CompressionType sarama.CompressionCodec
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:         brokers,
		ThresholdTopic:  topic,
		RetryMax:        3,
		TimeoutMs:       10000,
		RequiredAcks:    sarama.WaitForAll,
		CompressionType: sarama.CompressionSnappy,
	}
}

// Producer publishes threshold-crossed audit events to Kafka for
// external consumers (mailers, dashboards). The booking path treats
// publishing as best-effort.
type Producer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewProducer creates a new Kafka audit producer
func NewProducer(config *ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond

	// Hash partitioner keeps every event of one concert on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishThresholdCrossed implements the dispatcher's AuditPublisher
func (p *Producer) PublishThresholdCrossed(ctx context.Context, concertID uint, date time.Time, occupancyPercent, freeSeats, notified int) error {
	event := ThresholdEvent{
		EventID:          uuid.New().String(),
		ConcertID:        concertID,
		Date:             date.UTC(),
		OccupancyPercent: occupancyPercent,
		FreeSeats:        freeSeats,
		SubscribersSent:  notified,
		OccurredAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal threshold event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.config.ThresholdTopic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(concertID), 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("threshold_crossed")},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish threshold event: %w", err)
	}

	return nil
}

// HealthCheck verifies the producer still holds a broker connection
func (p *Producer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	return nil
}

// Close shuts the producer down
func (p *Producer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
