package mq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// AwardEvent is published after a stay has been rewarded, for downstream
// consumers such as the guild score feed.
type AwardEvent struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	GuildID   string    `json:"guild_id"`
	StayID    string    `json:"stay_id"`
	PlaceID   string    `json:"place_id"`
	Points    int64     `json:"points"`
	AwardedAt time.Time `json:"awarded_at"`
}

// AwardEventPublisher is the producer side of the award event stream.
type AwardEventPublisher interface {
	PublishAwardEvent(event *AwardEvent) error
	Close() error
}

// KafkaProducer implements AwardEventPublisher on top of a synchronous
// sarama producer.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start sarama producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    topic,
	}, nil
}

// PublishAwardEvent sends the event keyed by guild ID, so that per-guild
// ordering is preserved within a partition.
func (k *KafkaProducer) PublishAwardEvent(event *AwardEvent) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize award event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(event.GuildID),
		Value: sarama.ByteEncoder(bytes),
	}

	if _, _, err := k.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish award event: %w", err)
	}
	return nil
}

func (k *KafkaProducer) Close() error {
	return k.producer.Close()
}
