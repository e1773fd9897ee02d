package service

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	cb "github.com/Astemirdum/library-ledger/pkg/circuit_breaker"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
)

// Publisher ships committed ledger events. Failures are logged, never
// returned: the ledger state is already durable.
type Publisher interface {
	Publish(ctx context.Context, events ...kafka.LedgerEvent)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...kafka.LedgerEvent) {}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	breaker  cb.CircuitBreaker
	topic    string
	log      *zap.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, breaker cb.CircuitBreaker, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		breaker:  breaker,
		topic:    kafka.LedgerTopic,
		log:      log.Named("publisher"),
	}
}

func (p *KafkaPublisher) Publish(_ context.Context, events ...kafka.LedgerEvent) {
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		b, err := json.Marshal(ev)
		if err != nil {
			p.log.Error("json.Marshal", zap.Error(err))
			continue
		}
		msg := &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(ev.ReaderCPF),
			Value: sarama.ByteEncoder(b),
		}
		err = p.breaker.Call(func() error {
			_, _, err := p.producer.SendMessage(msg)
			return err
		})
		if err != nil {
			p.log.Warn("publish ledger event",
				zap.String("event_type", string(ev.EventType)),
				zap.String("cpf", ev.ReaderCPF),
				zap.Error(err))
			continue
		}
		p.log.Debug("published", zap.String("event_type", string(ev.EventType)), zap.String("id", ev.ID))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
