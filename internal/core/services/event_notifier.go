package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/cash_register_app/internal/middleware"
)

const publishTimeout = 5 * time.Second

// EventNotifier publishes a RegisterEvent for every saved mutation. Publishing
// happens off the request path; failures are logged only.
type EventNotifier struct {
	BaseService
	publisher portsrepo.EventPublisher
	wg        sync.WaitGroup
}

// NewEventNotifier creates an EventNotifier around publisher.
func NewEventNotifier(publisher portsrepo.EventPublisher, opts ...ServiceOption) *EventNotifier {
	n := &EventNotifier{publisher: publisher}
	n.apply(opts)
	return n
}

// RegisterCommitted implements the commit observer.
func (n *EventNotifier) RegisterCommitted(ctx context.Context, reg *domain.Register, action string) {
	if n == nil || n.publisher == nil || reg == nil {
		return
	}
	event := domain.RegisterEvent{
		OwnerID:    reg.OwnerID,
		Action:     action,
		Balance:    reg.Balance,
		EntryCount: len(reg.Ledger),
		At:         n.CurrentTime().UTC(),
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		pctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := n.publisher.Publish(pctx, event); err != nil {
			logger.Warn("Failed to publish register event",
				slog.String("owner_id", event.OwnerID),
				slog.String("action", event.Action),
				slog.String("error", err.Error()))
		}
	}()
}

// Close waits for in-flight publishes and closes the publisher.
func (n *EventNotifier) Close() error {
	if n == nil || n.publisher == nil {
		return nil
	}
	n.wg.Wait()
	return n.publisher.Close()
}
