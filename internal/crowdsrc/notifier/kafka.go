package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
	"crowdsrc/pkg/platform/sentinel"
)

// Producer is the subset of *kgo.Client used to publish records.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Kafka publishes a UserCreatedEvent keyed by user id, so every event for a
// user lands on the same partition.
type Kafka struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// NewKafka returns a notifier producing to topic.
func NewKafka(producer Producer, topic string, logger *slog.Logger) (*Kafka, error) {
	if producer == nil || topic == "" {
		return nil, fmt.Errorf("kafka notifier: producer and topic required: %w", sentinel.ErrUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{producer: producer, topic: topic, logger: logger}, nil
}

var _ ports.UserNotifier = (*Kafka)(nil)

func (k *Kafka) UserCreated(ctx context.Context, user models.User) {
	value, err := json.Marshal(NewUserCreatedEvent(user))
	if err != nil {
		k.logger.WarnContext(ctx, "encode user created event", "user_id", user.ID().String(), "error", err)
		return
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(user.ID().String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "type", Value: []byte(EventUserCreated)},
		},
	}
	if err := k.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		k.logger.WarnContext(ctx, "produce user created event failed",
			"topic", k.topic,
			"user_id", user.ID().String(),
			"error", err,
		)
	}
}
