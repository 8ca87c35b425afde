package dto

import (
	"strings"
	"time"

	"repair-tracker/internal/entities"
)

// TrackingStatusDTO - ответ публичного эндпоинта отслеживания.
type TrackingStatusDTO struct {
	TrackingCode  string    `json:"tracking_code"`
	CurrentStatus string    `json:"current_status"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

type AdminStatusUpdateDTO struct {
	TrackingCode  string `json:"tracking_code" validate:"required,tracking_code"`
	StatusMessage string `json:"status_message" validate:"required,min=3,max=500,status_text"`
}

func (d *AdminStatusUpdateDTO) Trim() {
	d.TrackingCode = strings.TrimSpace(d.TrackingCode)
	d.StatusMessage = strings.TrimSpace(d.StatusMessage)
}

type MessageDTO struct {
	Message string `json:"message"`
}

type StatusEntryDTO struct {
	ID            uint64    `json:"id"`
	StatusMessage string    `json:"status_message"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuoteHistoryDTO struct {
	TrackingCode string           `json:"tracking_code"`
	History      []StatusEntryDTO `json:"history"`
}

func NewQuoteHistoryDTO(code string, entries []entities.StatusEntry) QuoteHistoryDTO {
	out := QuoteHistoryDTO{TrackingCode: code, History: make([]StatusEntryDTO, 0, len(entries))}
	for _, e := range entries {
		out.History = append(out.History, StatusEntryDTO{ID: e.ID, StatusMessage: e.Message, CreatedAt: e.CreatedAt})
	}
	return out
}
