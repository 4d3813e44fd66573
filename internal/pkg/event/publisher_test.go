package event

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestKafkaPublisherIsAsync(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "coupon-events", zap.NewNop())

	assert.True(t, p.writer.Async)
	assert.NotNil(t, p.writer.Completion)
	assert.Equal(t, "coupon-events", p.writer.Topic)
}

func TestKafkaPublisherCompletionLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	p := &KafkaPublisher{log: zap.New(core)}

	p.completion([]kafka.Message{{Key: []byte("c1")}, {Key: []byte("c2")}}, errors.New("broker down"))
	p.completion([]kafka.Message{{Key: []byte("c3")}}, nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "c1", entries[0].ContextMap()["id"])
	assert.Equal(t, "c2", entries[1].ContextMap()["id"])
}

func TestNewSelectsImplementation(t *testing.T) {
	assert.IsType(t, NopPublisher{}, New(nil, "coupon-events", zap.NewNop()))
	assert.IsType(t, &KafkaPublisher{}, New([]string{"localhost:9092"}, "coupon-events", zap.NewNop()))
}

func TestOperatorContext(t *testing.T) {
	ctx := WithOperator(context.Background(), "admin-1")
	assert.Equal(t, "admin-1", OperatorFrom(ctx))
	assert.Empty(t, OperatorFrom(context.Background()))
}
