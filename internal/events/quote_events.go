package events

import (
	"repair-tracker/internal/entities"
)

const (
	QuoteSubmitted     = "quote.submitted"
	QuoteStatusUpdated = "quote.status.updated"
)

// QuoteSubmittedEvent публикуется после коммита новой заявки.
type QuoteSubmittedEvent struct {
	Quote entities.Quote
}

func (e QuoteSubmittedEvent) Name() string { return QuoteSubmitted }

// QuoteStatusUpdatedEvent публикуется после добавления статуса администратором.
type QuoteStatusUpdatedEvent struct {
	Quote entities.Quote
	Entry entities.StatusEntry
}

func (e QuoteStatusUpdatedEvent) Name() string { return QuoteStatusUpdated }
