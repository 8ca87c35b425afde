package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"repair-tracker/internal/events"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/eventbus"
)

// RowAppender - зеркало заявок. Реализуется spreadsheet.Workbook.
type RowAppender interface {
	AppendRow(row []interface{}) error
}

const collaboratorSpreadsheet = "spreadsheet"

// SheetListener дописывает каждую новую заявку в таблицу.
type SheetListener struct {
	sheet    RowAppender
	recorder services.Recorder
	logger   *zap.Logger
}

func NewSheetListener(sheet RowAppender, recorder services.Recorder, logger *zap.Logger) *SheetListener {
	return &SheetListener{sheet: sheet, recorder: recorder, logger: logger}
}

func (l *SheetListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.QuoteSubmitted, l.handleQuoteSubmitted)
	l.logger.Info("SheetListener subscribed", zap.String("event", events.QuoteSubmitted))
}

func (l *SheetListener) handleQuoteSubmitted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.QuoteSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	// excelize не принимает контекст, поэтому проверяем его до записи
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.sheet.AppendRow(services.QuoteSheetRow(e.Quote)); err != nil {
		l.recorder.CollaboratorFailed(collaboratorSpreadsheet)
		return fmt.Errorf("failed to mirror quote %s: %w", e.Quote.TrackingCode, err)
	}

	l.logger.Debug("quote mirrored to spreadsheet", zap.String("tracking_code", e.Quote.TrackingCode))
	return nil
}
