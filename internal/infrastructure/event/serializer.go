package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
)

// EventSerializer converts domain events to and from JSON
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventSerializer creates a serializer with no registered types
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// NewLedgerEventSerializer creates a serializer that knows every ledger event
func NewLedgerEventSerializer() *EventSerializer {
	s := NewEventSerializer()
	RegisterLedgerEvents(s)
	return s
}

// Register associates eventType with the concrete type of instance
func (s *EventSerializer) Register(eventType string, instance shared.DomainEvent) {
	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

// Serialize encodes event as JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}
	return data, nil
}

// Deserialize decodes data into the type registered for eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	event, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("%s does not implement DomainEvent", t)
	}
	return event, nil
}

// IsRegistered reports whether eventType can be deserialized
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

// RegisteredTypes returns the registered event types in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.types))
	for t := range s.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// RegisterLedgerEvents registers the counterparty, invoice and payment events
func RegisterLedgerEvents(s *EventSerializer) {
	// Counterparties and their ledger accounts
	s.Register(partner.EventTypeCounterpartyCreated, &partner.CounterpartyCreatedEvent{})
	s.Register(partner.EventTypeCounterpartyUpdated, &partner.CounterpartyUpdatedEvent{})
	s.Register(partner.EventTypeCounterpartyStatusChanged, &partner.CounterpartyStatusChangedEvent{})
	s.Register(partner.EventTypeCounterpartyDeleted, &partner.CounterpartyDeletedEvent{})
	s.Register(partner.EventTypeLedgerBalanceChanged, &partner.LedgerBalanceChangedEvent{})

	// Invoices
	s.Register(finance.EventTypeInvoiceRecorded, &finance.InvoiceRecordedEvent{})
	s.Register(finance.EventTypeInvoicePaymentApplied, &finance.InvoicePaymentAppliedEvent{})
	s.Register(finance.EventTypeInvoicePaymentReversed, &finance.InvoicePaymentReversedEvent{})
	s.Register(finance.EventTypeInvoiceCancelled, &finance.InvoiceCancelledEvent{})

	// Payments
	s.Register(finance.EventTypePaymentApplied, &finance.PaymentAppliedEvent{})
	s.Register(finance.EventTypePaymentReversed, &finance.PaymentReversedEvent{})
}
