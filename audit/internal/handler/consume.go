package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/pkg/kafka"
)

type record func(ctx context.Context, event kafka.LedgerEvent) error

type Consumer struct {
	record record
	log    *zap.Logger
}

func NewConsumer(record record, log *zap.Logger) *Consumer {
	return &Consumer{
		record: record,
		log:    log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks undecodable messages as consumed. A message whose
// record fails is left unmarked and is redelivered after a rebalance.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.LedgerEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("json.Unmarshal", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.record(session.Context(), event); err != nil {
				consumer.log.Error("consumer.record", zap.Error(err), zap.String("event_id", event.ID))
				continue
			}

			consumer.log.Debug("Message claimed:",
				zap.String("event_type", string(event.EventType)),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
