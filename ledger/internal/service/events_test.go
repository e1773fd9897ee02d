package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/service"
	cb "github.com/Astemirdum/library-ledger/pkg/circuit_breaker"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev kafka.LedgerEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.ID == "" || ev.EventType != kafka.EventLoanCreated || ev.BookID != 1 {
			return errors.Errorf("unexpected event %+v", ev)
		}
		return nil
	})

	p := service.NewKafkaPublisher(producer, cb.New(10, time.Minute, 0.5, 1), zap.NewNop())
	p.Publish(context.Background(), kafka.LedgerEvent{EventType: kafka.EventLoanCreated, ReaderCPF: "52998224725", BookID: 1})
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_BreakerOpens(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	breaker := cb.New(2, time.Hour, 0.5, 1)
	p := service.NewKafkaPublisher(producer, breaker, zap.NewNop())
	p.Publish(context.Background(),
		kafka.LedgerEvent{EventType: kafka.EventLoanReturned, ReaderCPF: "52998224725", BookID: 1},
		kafka.LedgerEvent{EventType: kafka.EventDebtSettled, ReaderCPF: "52998224725", BookID: 1},
	)
	require.Equal(t, cb.Open, breaker.State())
	require.NoError(t, p.Close())
}
