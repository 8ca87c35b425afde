package listeners

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"repair-tracker/internal/events"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/eventbus"
)

const collaboratorEmail = "email"

type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	recorder            services.Recorder
	logger              *zap.Logger
}

func NewNotificationListener(
	notificationService services.NotificationServiceInterface,
	recorder services.Recorder,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		notificationService: notificationService,
		recorder:            recorder,
		logger:              logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.QuoteSubmitted, l.handleQuoteSubmitted)
	bus.Subscribe(events.QuoteStatusUpdated, l.handleStatusUpdated)
	l.logger.Info("NotificationListener subscribed",
		zap.Strings("events", []string{events.QuoteSubmitted, events.QuoteStatusUpdated}),
	)
}

// handleQuoteSubmitted отправляет письмо клиенту и администратору параллельно.
func (l *NotificationListener) handleQuoteSubmitted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.QuoteSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	sends := map[string]func(context.Context) error{
		"customer confirmation": func(ctx context.Context) error {
			return l.notificationService.SendQuoteConfirmation(ctx, e.Quote)
		},
		"admin notification": func(ctx context.Context) error {
			return l.notificationService.SendAdminNotification(ctx, e.Quote)
		},
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for name, send := range sends {
		wg.Add(1)
		go func(name string, send func(context.Context) error) {
			defer wg.Done()
			if err := send(ctx); err != nil {
				l.recorder.CollaboratorFailed(collaboratorEmail)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				return
			}
			l.logger.Debug("email sent", zap.String("kind", name), zap.String("tracking_code", e.Quote.TrackingCode))
		}(name, send)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (l *NotificationListener) handleStatusUpdated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.QuoteStatusUpdatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if err := l.notificationService.SendStatusUpdate(ctx, e.Quote, e.Entry.Message); err != nil {
		l.recorder.CollaboratorFailed(collaboratorEmail)
		return fmt.Errorf("status update email for %s: %w", e.Quote.TrackingCode, err)
	}
	return nil
}
