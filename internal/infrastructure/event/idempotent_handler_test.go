package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Remember(ctx context.Context, key, resultID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, resultID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := newTestHandler("PaymentApplied")
	h := NewIdempotentHandler(inner, "activity", store, zap.NewNop())
	evt := newTestEvent("PaymentApplied")

	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("PaymentApplied")))

	assert.Equal(t, 2, inner.count())
	assert.Equal(t, IdempotencyStats{EventsProcessed: 2, EventsDuplicate: 1}, h.GetMetrics().Stats())
	assert.Equal(t, []string{"PaymentApplied"}, h.EventTypes())
}

func TestIdempotentHandler_KeysAreScopedPerHandler(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	first := newTestHandler()
	second := newTestHandler()
	evt := newTestEvent("InvoiceRecorded")

	require.NoError(t, NewIdempotentHandler(first, "metrics", store, zap.NewNop()).Handle(context.Background(), evt))
	require.NoError(t, NewIdempotentHandler(second, "audit", store, zap.NewNop()).Handle(context.Background(), evt))

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())

	_, found, err := store.Lookup(context.Background(), evt.EventID().String())
	require.NoError(t, err)
	assert.False(t, found, "event keys never collide with payment keys")
}

func TestIdempotentHandler_StoreErrorStillHandles(t *testing.T) {
	store := new(MockIdempotencyStore)
	store.On("Remember", mock.Anything, mock.Anything, mock.Anything, 24*time.Hour).
		Return(false, errors.New("redis down"))

	inner := newTestHandler()
	h := NewIdempotentHandler(inner, "activity", store, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), newTestEvent("PaymentApplied")))
	assert.Equal(t, 1, inner.count())
	store.AssertExpectations(t)
}

func TestIdempotentHandler_HandlerErrorCounted(t *testing.T) {
	store := new(MockIdempotencyStore)
	store.On("Remember", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(true, nil)

	inner := newTestHandler()
	inner.err = errors.New("fail")
	h := NewIdempotentHandler(inner, "activity", store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{TTL: time.Minute, Enabled: true}))

	assert.EqualError(t, h.Handle(context.Background(), newTestEvent("PaymentApplied")), "fail")
	assert.Equal(t, int64(1), h.GetMetrics().EventsFailed.Load())
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler()
	h := NewIdempotentHandler(inner, "activity", store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

	evt := newTestEvent("PaymentApplied")
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))

	assert.Equal(t, 2, inner.count())
	store.AssertNotCalled(t, "Remember")
}

func TestIdempotentHandler_ConcurrentDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := newTestHandler()
	h := NewIdempotentHandler(inner, "activity", store, zap.NewNop())
	evt := newTestEvent("PaymentApplied")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Handle(context.Background(), evt)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, inner.count())
	assert.Equal(t, int64(19), h.GetMetrics().EventsDuplicate.Load())
}
