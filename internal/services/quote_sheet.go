package services

import (
	"time"

	"repair-tracker/internal/entities"
)

// QuoteSheetHeaders - колонки таблицы-зеркала, в порядке записи.
var QuoteSheetHeaders = []string{
	"Tracking Code", "Created At", "Full Name", "Email", "Phone",
	"City", "Device Type", "Brand", "Model", "Issue Description",
}

// QuoteSheetRow превращает заявку в строку таблицы в порядке QuoteSheetHeaders.
func QuoteSheetRow(q entities.Quote) []interface{} {
	return []interface{}{
		q.TrackingCode,
		q.CreatedAt.UTC().Format(time.DateTime),
		q.FullName,
		q.Email,
		q.Phone,
		q.City,
		q.DeviceType,
		q.Brand,
		q.Model,
		q.IssueDescription,
	}
}

// exportHeaders - колонки зеркала плюс текущий статус.
var exportHeaders = append(append([]string{}, QuoteSheetHeaders...), "Current Status", "Status Updated At")

func exportRow(s entities.QuoteSummary) []interface{} {
	updated := ""
	if s.StatusUpdatedAt.Valid {
		updated = s.StatusUpdatedAt.Time.UTC().Format(time.DateTime)
	}
	return append(QuoteSheetRow(s.Quote), s.CurrentStatus.String, updated)
}
