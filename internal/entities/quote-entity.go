package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Quote - заявка клиента на ремонт. Создается один раз и больше не меняется.
type Quote struct {
	ID               uint64
	TrackingCode     string
	FullName         string
	Email            string
	Phone            string
	City             string
	DeviceType       string
	Brand            string
	Model            string
	IssueDescription string
	CreatedAt        time.Time
}

// StatusEntry - одна запись истории статусов. Записи только добавляются.
type StatusEntry struct {
	ID        uint64
	QuoteID   uint64
	Message   string
	CreatedAt time.Time
}

// QuoteSummary - заявка вместе с текущим статусом. Статус пустой только
// при пустой истории, а транзакция создания заявки этого не допускает.
type QuoteSummary struct {
	Quote
	CurrentStatus   null.String
	StatusUpdatedAt null.Time
}

type QuoteFilter struct {
	DeviceType null.String
	City       null.String
	Status     null.String
	DateFrom   null.Time
	DateTo     null.Time
	Limit      uint64
	Offset     uint64
}

type QuoteStats struct {
	TotalQuotes        uint64
	QuotesByDeviceType map[string]uint64
	QuotesByCity       map[string]uint64
	QuotesByStatus     map[string]uint64
}
