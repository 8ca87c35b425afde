package services

import (
	"context"

	"repair-tracker/pkg/eventbus"
)

// EventPublisher - часть шины событий, нужная сервисам.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// Recorder принимает бизнес-счетчики. Реализуется *metrics.Metrics.
type Recorder interface {
	QuoteSubmitted()
	StatusUpdated()
	CollaboratorFailed(collaborator string)
}

type nopRecorder struct{}

func (nopRecorder) QuoteSubmitted()           {}
func (nopRecorder) StatusUpdated()            {}
func (nopRecorder) CollaboratorFailed(string) {}

// NopRecorder ничего не считает.
func NopRecorder() Recorder { return nopRecorder{} }
