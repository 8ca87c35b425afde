package services

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/repositories"
	"repair-tracker/pkg/spreadsheet"
)

type AdminQuoteServiceInterface interface {
	List(ctx context.Context, filter dto.QuoteFilterDTO) (*dto.QuoteListDTO, error)
	Stats(ctx context.Context) (*dto.QuoteStatsDTO, error)
	Export(ctx context.Context, filter dto.QuoteFilterDTO) (*excelize.File, error)
}

type AdminQuoteService struct {
	quoteRepo repositories.QuoteRepositoryInterface
	logger    *zap.Logger
}

func NewAdminQuoteService(quoteRepo repositories.QuoteRepositoryInterface, logger *zap.Logger) AdminQuoteServiceInterface {
	return &AdminQuoteService{quoteRepo: quoteRepo, logger: logger}
}

func (s *AdminQuoteService) List(ctx context.Context, filter dto.QuoteFilterDTO) (*dto.QuoteListDTO, error) {
	f := filter.ToEntity()
	if f.Limit > dto.MaxQuoteLimit {
		f.Limit = dto.MaxQuoteLimit
	}

	quotes, total, err := s.quoteRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	list := make([]dto.QuoteSummaryDTO, 0, len(quotes))
	for _, q := range quotes {
		list = append(list, dto.NewQuoteSummaryDTO(q))
	}
	return &dto.QuoteListDTO{
		List:       list,
		Pagination: dto.PaginationDTO{TotalCount: total, Limit: f.Limit, Offset: f.Offset},
	}, nil
}

func (s *AdminQuoteService) Stats(ctx context.Context) (*dto.QuoteStatsDTO, error) {
	stats, err := s.quoteRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	result := dto.NewQuoteStatsDTO(*stats)
	return &result, nil
}

// Export выгружает заявки по фильтру в XLSX. Пагинация игнорируется,
// количество строк ограничено MaxExportRows.
func (s *AdminQuoteService) Export(ctx context.Context, filter dto.QuoteFilterDTO) (*excelize.File, error) {
	f := filter.ToEntity()
	f.Limit = dto.MaxExportRows
	f.Offset = 0

	quotes, total, err := s.quoteRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if total > uint64(len(quotes)) {
		s.logger.Warn("export truncated", zap.Uint64("total", total), zap.Int("exported", len(quotes)))
	}

	rows := make([][]interface{}, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, exportRow(q))
	}
	return spreadsheet.BuildReport("Quotes", exportHeaders, rows)
}
