package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	mu         sync.Mutex
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	specific := newTestHandler("PaymentApplied")
	other := newTestHandler("InvoiceCancelled")
	wildcard := newTestHandler()
	bus.Subscribe(specific)
	bus.Subscribe(other)
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentApplied"), newTestEvent("PaymentApplied")))

	assert.Equal(t, 2, specific.count())
	assert.Equal(t, 0, other.count())
	assert.Equal(t, 2, wildcard.count())
}

func TestInMemoryEventBus_Subscribe_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := newTestHandler("PaymentApplied")
	bus.Subscribe(h, "PaymentReversed")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentApplied")))
	assert.Equal(t, 0, h.count())
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentReversed")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("PaymentApplied")
	failing.err = errors.New("metrics down")
	panicking := newTestHandler("PaymentApplied")
	panicking.panicMsg = "boom"
	healthy := newTestHandler("PaymentApplied")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("PaymentApplied"))

	require.NoError(t, err, "committed work is never reported as failed")
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, int64(2), bus.Failures())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("PaymentApplied")
	bus.Subscribe(h)

	_ = bus.Publish(context.Background(), newTestEvent("PaymentApplied"))
	bus.Unsubscribe(h)
	_ = bus.Publish(context.Background(), newTestEvent("PaymentApplied"))

	assert.Equal(t, 1, h.count())
	assert.Empty(t, bus.registry.GetAllHandlers())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())
}

func TestInMemoryEventBus_StopHonoursDeadline(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	release := make(chan struct{})
	started := make(chan struct{})
	bus.Subscribe(blockingHandler{started: started, release: release})

	go func() { _ = bus.Publish(context.Background(), newTestEvent("Slow")) }()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)
	close(release)
}

type blockingHandler struct {
	started chan struct{}
	release chan struct{}
}

func (h blockingHandler) Handle(context.Context, shared.DomainEvent) error {
	close(h.started)
	<-h.release
	return nil
}

func (blockingHandler) EventTypes() []string { return []string{"Slow"} }

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()
	wild := newTestHandler()

	r.Register(a, "PaymentApplied", "PaymentReversed")
	r.Register(b, "PaymentApplied")
	r.Register(wild)

	assert.Equal(t, []shared.EventHandler{a, b, wild}, r.GetHandlers("PaymentApplied"))
	assert.Equal(t, []shared.EventHandler{a, wild}, r.GetHandlers("PaymentReversed"))
	assert.Equal(t, []shared.EventHandler{wild}, r.GetHandlers("Unknown"))
	assert.Len(t, r.GetAllHandlers(), 3)

	r.Unregister(a)
	assert.Equal(t, []shared.EventHandler{b, wild}, r.GetHandlers("PaymentApplied"))
	assert.Equal(t, []shared.EventHandler{wild}, r.GetHandlers("PaymentReversed"))

	r.Unregister(wild)
	assert.Equal(t, []shared.EventHandler{b}, r.GetHandlers("PaymentApplied"))
}
