package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	"repair-tracker/internal/events"
	"repair-tracker/internal/repositories"
	"repair-tracker/pkg/constants"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/trackingcode"
	"repair-tracker/pkg/validation"
)

// maxCodeAttempts - сколько раз генерируем новый код при конфликте уникальности.
const maxCodeAttempts = 3

type QuoteServiceInterface interface {
	SubmitQuote(ctx context.Context, req dto.CreateQuoteDTO) (*dto.QuoteDTO, error)
}

type QuoteService struct {
	txManager  repositories.TxManagerInterface
	quoteRepo  repositories.QuoteRepositoryInterface
	statusRepo repositories.StatusEntryRepositoryInterface
	generator  trackingcode.Generator
	publisher  EventPublisher
	recorder   Recorder
	logger     *zap.Logger
}

func NewQuoteService(
	txManager repositories.TxManagerInterface,
	quoteRepo repositories.QuoteRepositoryInterface,
	statusRepo repositories.StatusEntryRepositoryInterface,
	generator trackingcode.Generator,
	publisher EventPublisher,
	recorder Recorder,
	logger *zap.Logger,
) QuoteServiceInterface {
	return &QuoteService{
		txManager:  txManager,
		quoteRepo:  quoteRepo,
		statusRepo: statusRepo,
		generator:  generator,
		publisher:  publisher,
		recorder:   recorder,
		logger:     logger,
	}
}

// SubmitQuote сохраняет заявку вместе с начальным статусом в одной транзакции.
// Таблица и письма обрабатываются слушателями после коммита; их ошибки
// не влияют на ответ.
func (s *QuoteService) SubmitQuote(ctx context.Context, req dto.CreateQuoteDTO) (*dto.QuoteDTO, error) {
	quote := entities.Quote{
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            validation.NormalizePhone(req.Phone),
		City:             req.City,
		DeviceType:       req.DeviceType,
		Brand:            req.Brand,
		Model:            req.Model,
		IssueDescription: req.IssueDescription,
	}

	var created *entities.Quote
	var err error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		created, err = s.persist(ctx, quote)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.logger.Warn("tracking code collision, regenerating", zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Internal server error",
			fmt.Errorf("submit quote: %w", err),
			map[string]interface{}{"device_type": quote.DeviceType, "city": quote.City, "attempts": maxCodeAttempts},
		)
	}

	s.recorder.QuoteSubmitted()
	s.logger.Info("quote submitted",
		zap.Uint64("quote_id", created.ID),
		zap.String("tracking_code", created.TrackingCode),
	)
	s.publisher.Publish(ctx, events.QuoteSubmittedEvent{Quote: *created})

	result := dto.NewQuoteDTO(*created)
	return &result, nil
}

func (s *QuoteService) persist(ctx context.Context, quote entities.Quote) (*entities.Quote, error) {
	code, err := s.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate tracking code: %w", err)
	}
	quote.TrackingCode = code

	var created *entities.Quote
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var txErr error
		created, txErr = s.quoteRepo.Create(ctx, tx, quote)
		if txErr != nil {
			return txErr
		}
		_, txErr = s.statusRepo.Create(ctx, tx, created.ID, constants.InitialStatus)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
