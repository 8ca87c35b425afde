package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	"repair-tracker/internal/events"
	"repair-tracker/internal/repositories"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/trackingcode"
)

type TrackingServiceInterface interface {
	Track(ctx context.Context, code string) (*dto.TrackingStatusDTO, error)
	UpdateStatus(ctx context.Context, req dto.AdminStatusUpdateDTO) (*dto.MessageDTO, error)
	History(ctx context.Context, code string) (*dto.QuoteHistoryDTO, error)
}

type TrackingService struct {
	txManager  repositories.TxManagerInterface
	quoteRepo  repositories.QuoteRepositoryInterface
	statusRepo repositories.StatusEntryRepositoryInterface
	publisher  EventPublisher
	recorder   Recorder
	logger     *zap.Logger
}

func NewTrackingService(
	txManager repositories.TxManagerInterface,
	quoteRepo repositories.QuoteRepositoryInterface,
	statusRepo repositories.StatusEntryRepositoryInterface,
	publisher EventPublisher,
	recorder Recorder,
	logger *zap.Logger,
) TrackingServiceInterface {
	return &TrackingService{
		txManager:  txManager,
		quoteRepo:  quoteRepo,
		statusRepo: statusRepo,
		publisher:  publisher,
		recorder:   recorder,
		logger:     logger,
	}
}

// Track возвращает текущий статус. Формат кода проверяется до обращения к БД.
func (s *TrackingService) Track(ctx context.Context, code string) (*dto.TrackingStatusDTO, error) {
	if !trackingcode.Valid(code) {
		return nil, apperrors.ErrInvalidTrackingCode
	}

	quote, err := s.quoteRepo.FindByTrackingCode(ctx, nil, code)
	if err != nil {
		return nil, err
	}

	latest, err := s.statusRepo.FindLatestByQuoteID(ctx, nil, quote.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoStatusHistory) {
			// у каждой заявки должен быть хотя бы "Request Received"
			s.logger.Error("quote has no status history",
				zap.Uint64("quote_id", quote.ID),
				zap.String("tracking_code", code),
			)
		}
		return nil, err
	}

	return &dto.TrackingStatusDTO{
		TrackingCode:  quote.TrackingCode,
		CurrentStatus: latest.Message,
		LastUpdatedAt: latest.CreatedAt,
	}, nil
}

// UpdateStatus добавляет одну запись. Старые записи не меняются,
// порядок статусов не проверяется.
func (s *TrackingService) UpdateStatus(ctx context.Context, req dto.AdminStatusUpdateDTO) (*dto.MessageDTO, error) {
	if !trackingcode.Valid(req.TrackingCode) {
		return nil, apperrors.ErrInvalidTrackingCode
	}

	var quote *entities.Quote
	var entry *entities.StatusEntry
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var txErr error
		if quote, txErr = s.quoteRepo.FindByTrackingCode(ctx, tx, req.TrackingCode); txErr != nil {
			return txErr
		}
		entry, txErr = s.statusRepo.Create(ctx, tx, quote.ID, req.StatusMessage)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.recorder.StatusUpdated()
	s.logger.Info("status updated",
		zap.String("tracking_code", quote.TrackingCode),
		zap.Uint64("entry_id", entry.ID),
	)
	s.publisher.Publish(ctx, events.QuoteStatusUpdatedEvent{Quote: *quote, Entry: *entry})

	return &dto.MessageDTO{
		Message: fmt.Sprintf("Status updated successfully for tracking code %s", quote.TrackingCode),
	}, nil
}

func (s *TrackingService) History(ctx context.Context, code string) (*dto.QuoteHistoryDTO, error) {
	if !trackingcode.Valid(code) {
		return nil, apperrors.ErrInvalidTrackingCode
	}

	quote, err := s.quoteRepo.FindByTrackingCode(ctx, nil, code)
	if err != nil {
		return nil, err
	}

	entries, err := s.statusRepo.FindByQuoteID(ctx, quote.ID)
	if err != nil {
		return nil, err
	}

	result := dto.NewQuoteHistoryDTO(quote.TrackingCode, entries)
	return &result, nil
}
