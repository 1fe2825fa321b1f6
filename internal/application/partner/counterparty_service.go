// Package partner implements registration and maintenance of the customers
// and suppliers whose balances the ledger tracks.
package partner

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CounterpartyService handles counterparty operations
type CounterpartyService struct {
	uow    finance.UnitOfWork
	events shared.EventPublisher
}

// NewCounterpartyService creates a new CounterpartyService. events may be nil.
func NewCounterpartyService(uow finance.UnitOfWork, events shared.EventPublisher) *CounterpartyService {
	return &CounterpartyService{uow: uow, events: events}
}

// Create registers a new customer or supplier
func (s *CounterpartyService) Create(ctx context.Context, req CreateCounterpartyRequest) (*CounterpartyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "counterparty", "create")
	defer span.End()

	kind, err := partner.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	c, err := partner.NewCounterparty(kind, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	c.Note = req.Note

	if err := s.uow.Repositories().Counterparties().Create(ctx, c); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, c)

	logger.L(ctx).Info("counterparty created",
		zap.String("counterparty_id", c.ID.String()),
		zap.String("kind", c.Kind.String()),
	)
	response := ToCounterpartyResponse(c)
	return &response, nil
}

// GetByID returns a counterparty with its opened ledger accounts
func (s *CounterpartyService) GetByID(ctx context.Context, id uuid.UUID) (*CounterpartyResponse, error) {
	repos := s.uow.Repositories()
	c, err := repos.Counterparties().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	accounts, err := repos.Accounts().FindByCounterparty(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCounterpartyResponse(c)
	for _, a := range accounts {
		response.Accounts = append(response.Accounts, toAccountPosition(a))
	}
	return &response, nil
}

// List returns counterparties matching the filter and the total count
func (s *CounterpartyService) List(ctx context.Context, filter CounterpartyListFilter) ([]CounterpartyResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := partner.CounterpartyFilter{
		Search: filter.Search,
		Limit:  filter.PageSize,
		Offset: (filter.Page - 1) * filter.PageSize,
	}
	if filter.Kind != "" {
		kind, err := partner.ParseKind(filter.Kind)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Kind = &kind
	}
	if filter.Status != "" {
		status := partner.Status(filter.Status)
		domainFilter.Status = &status
	}

	items, total, err := s.uow.Repositories().Counterparties().List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CounterpartyResponse, len(items))
	for i, c := range items {
		out[i] = ToCounterpartyResponse(c)
	}
	return out, total, nil
}

// Update changes name, phone or note
func (s *CounterpartyService) Update(ctx context.Context, id uuid.UUID, req UpdateCounterpartyRequest) (*CounterpartyResponse, error) {
	return s.mutate(ctx, "update", id, func(c *partner.Counterparty) error {
		name, phone, note := c.Name, c.Phone, c.Note
		if req.Name != nil {
			name = *req.Name
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Note != nil {
			note = *req.Note
		}
		return c.Update(name, phone, note)
	})
}

// Activate re-enables an inactive counterparty
func (s *CounterpartyService) Activate(ctx context.Context, id uuid.UUID) (*CounterpartyResponse, error) {
	return s.mutate(ctx, "activate", id, (*partner.Counterparty).Activate)
}

// Deactivate stops new invoices and payments for a counterparty. Reads,
// cancellations and reversals keep working.
func (s *CounterpartyService) Deactivate(ctx context.Context, id uuid.UUID) (*CounterpartyResponse, error) {
	return s.mutate(ctx, "deactivate", id, (*partner.Counterparty).Deactivate)
}

// Delete removes a counterparty that has no open invoices and holds no
// advance in any currency
func (s *CounterpartyService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "counterparty", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrCounterpartyID, id.String()))
	defer span.End()

	var deleted *partner.Counterparty
	err := s.uow.Do(ctx, func(ctx context.Context, repos finance.Repositories) error {
		// Waits for in-flight ledger transactions, which share-lock the row
		c, err := repos.Counterparties().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		open, err := repos.Invoices().CountOpen(ctx, id)
		if err != nil {
			return err
		}
		accounts, err := repos.Accounts().FindByCounterparty(ctx, id)
		if err != nil {
			return err
		}
		if err := c.MarkDeleted(open, accounts); err != nil {
			return err
		}
		if err := repos.Counterparties().Delete(ctx, id); err != nil {
			return err
		}
		deleted = c
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.publish(ctx, deleted)
	logger.L(ctx).Info("counterparty deleted", zap.String("counterparty_id", id.String()))
	return nil
}

func (s *CounterpartyService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(*partner.Counterparty) error) (*CounterpartyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "counterparty", op,
		telemetry.WithAttribute(telemetry.SpanAttrCounterpartyID, id.String()))
	defer span.End()

	repo := s.uow.Repositories().Counterparties()
	c, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, c); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, c)

	response := ToCounterpartyResponse(c)
	return &response, nil
}

func (s *CounterpartyService) publish(ctx context.Context, c *partner.Counterparty) {
	events := c.GetDomainEvents()
	c.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("failed to publish counterparty events", zap.Error(err))
	}
}
