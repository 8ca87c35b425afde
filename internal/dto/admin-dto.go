package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"repair-tracker/internal/entities"
)

const (
	DefaultQuoteLimit = 50
	MaxQuoteLimit     = 500
	// MaxExportRows ограничивает выгрузку в XLSX.
	MaxExportRows = 10000
)

// QuoteFilterDTO - параметры фильтра из query string.
type QuoteFilterDTO struct {
	DeviceType null.String `json:"device_type" validate:"omitempty,device_type"`
	City       null.String `json:"city" validate:"omitempty,min=2,max=50,safe_text"`
	Status     null.String `json:"status" validate:"omitempty,max=500"`
	DateFrom   null.Time   `json:"date_from"`
	DateTo     null.Time   `json:"date_to"`
	Limit      null.Int    `json:"limit" validate:"omitempty,gte=1,lte=500"`
	Offset     null.Int    `json:"offset" validate:"omitempty,gte=0"`
}

func (d QuoteFilterDTO) ToEntity() entities.QuoteFilter {
	f := entities.QuoteFilter{
		DeviceType: d.DeviceType,
		City:       d.City,
		Status:     d.Status,
		DateFrom:   d.DateFrom,
		DateTo:     d.DateTo,
		Limit:      DefaultQuoteLimit,
	}
	if d.Limit.Valid && d.Limit.Int >= 1 {
		f.Limit = uint64(d.Limit.Int)
	}
	if d.Offset.Valid && d.Offset.Int > 0 {
		f.Offset = uint64(d.Offset.Int)
	}
	return f
}

type QuoteSummaryDTO struct {
	QuoteDTO
	CurrentStatus string     `json:"current_status"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
}

func NewQuoteSummaryDTO(s entities.QuoteSummary) QuoteSummaryDTO {
	out := QuoteSummaryDTO{QuoteDTO: NewQuoteDTO(s.Quote), CurrentStatus: s.CurrentStatus.String}
	if s.StatusUpdatedAt.Valid {
		t := s.StatusUpdatedAt.Time
		out.LastUpdatedAt = &t
	}
	return out
}

type PaginationDTO struct {
	TotalCount uint64 `json:"total_count"`
	Limit      uint64 `json:"limit"`
	Offset     uint64 `json:"offset"`
}

type QuoteListDTO struct {
	List       []QuoteSummaryDTO `json:"list"`
	Pagination PaginationDTO     `json:"pagination"`
}

type QuoteStatsDTO struct {
	TotalQuotes        uint64            `json:"total_quotes"`
	QuotesByDeviceType map[string]uint64 `json:"quotes_by_device_type"`
	QuotesByCity       map[string]uint64 `json:"quotes_by_city"`
	QuotesByStatus     map[string]uint64 `json:"quotes_by_status"`
}

func NewQuoteStatsDTO(s entities.QuoteStats) QuoteStatsDTO {
	return QuoteStatsDTO{
		TotalQuotes:        s.TotalQuotes,
		QuotesByDeviceType: s.QuotesByDeviceType,
		QuotesByCity:       s.QuotesByCity,
		QuotesByStatus:     s.QuotesByStatus,
	}
}

type HealthDTO struct {
	Status         string    `json:"status"`
	Service        string    `json:"service"`
	Version        string    `json:"version"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	CacheStatus    string    `json:"cache_status,omitempty"`
}
