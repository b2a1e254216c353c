package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

// An unreachable broker must keep the consumer loop retrying, never exit
// it; only cancelling the context stops it.
func TestRun_RetriesUnreachableBrokerUntilCancelled(t *testing.T) {
	group := NewConsumerGroup(
		[]string{"127.0.0.1:1"},
		"test-group",
		[]string{"order_events"},
		func(_ context.Context, _ *sarama.ConsumerMessage) error { return nil },
		zap.NewNop(),
	)
	group.backoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		group.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("consumer loop exited while the context was still active")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("consumer loop did not stop after cancellation")
	}
}

type fakeSession struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "test-member" }
func (s *fakeSession) GenerationID() int32                      { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context                 { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg)
}

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "order_events" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	return recorder
}

// Every consumed message gets exactly one span, ended once the handler
// finished, and successful handling marks the offset.
func TestConsumeClaim_EndsSpanPerMessage(t *testing.T) {
	recorder := withSpanRecorder(t)

	h := &saramaHandler{
		handler: func(_ context.Context, _ *sarama.ConsumerMessage) error { return nil },
		logger:  zap.NewNop(),
	}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 2)}
	claim.messages <- &sarama.ConsumerMessage{Topic: "order_events", Offset: 1}
	claim.messages <- &sarama.ConsumerMessage{Topic: "order_events", Offset: 2}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Len(t, session.marked, 2)
	assert.Len(t, recorder.Ended(), 2)
}

func TestConsumeClaim_FailedHandlerNotMarkedButSpanEnded(t *testing.T) {
	recorder := withSpanRecorder(t)

	h := &saramaHandler{
		handler: func(_ context.Context, _ *sarama.ConsumerMessage) error { return errors.New("boom") },
		logger:  zap.NewNop(),
	}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- &sarama.ConsumerMessage{Topic: "order_events", Offset: 1}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Empty(t, session.marked)
	assert.Len(t, recorder.Ended(), 1)
}
