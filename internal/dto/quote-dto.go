package dto

import (
	"strings"
	"time"

	"repair-tracker/internal/entities"
)

// CreateQuoteDTO: что клиент присылает в форме заявки.
type CreateQuoteDTO struct {
	FullName         string `json:"full_name" validate:"required,min=2,max=100,safe_text"`
	Email            string `json:"email" validate:"required,max=254,strict_email"`
	Phone            string `json:"phone" validate:"required,min=10,max=20,phone"`
	City             string `json:"city" validate:"required,min=2,max=50,safe_text"`
	DeviceType       string `json:"device_type" validate:"required,device_type"`
	Brand            string `json:"brand" validate:"required,min=2,max=50,safe_text"`
	Model            string `json:"model" validate:"required,min=1,max=100,safe_text"`
	IssueDescription string `json:"issue_description" validate:"required,min=10,max=2000,safe_description"`
}

// Trim убирает пробелы по краям до валидации: ограничения длины считаются по обрезанной строке.
func (d *CreateQuoteDTO) Trim() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.City = strings.TrimSpace(d.City)
	d.DeviceType = strings.TrimSpace(d.DeviceType)
	d.Brand = strings.TrimSpace(d.Brand)
	d.Model = strings.TrimSpace(d.Model)
	d.IssueDescription = strings.TrimSpace(d.IssueDescription)
}

// QuoteDTO: что сервер отправляет в ответ на заявку.
type QuoteDTO struct {
	ID               uint64    `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	City             string    `json:"city"`
	DeviceType       string    `json:"device_type"`
	Brand            string    `json:"brand"`
	Model            string    `json:"model"`
	IssueDescription string    `json:"issue_description"`
	TrackingCode     string    `json:"tracking_code"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewQuoteDTO(q entities.Quote) QuoteDTO {
	return QuoteDTO{
		ID:               q.ID,
		FullName:         q.FullName,
		Email:            q.Email,
		Phone:            q.Phone,
		City:             q.City,
		DeviceType:       q.DeviceType,
		Brand:            q.Brand,
		Model:            q.Model,
		IssueDescription: q.IssueDescription,
		TrackingCode:     q.TrackingCode,
		CreatedAt:        q.CreatedAt,
	}
}
