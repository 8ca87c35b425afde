// Package seeders заполняет базу разработки тестовыми заявками.
package seeders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/constants"
)

var sampleCustomers = []struct {
	name, email, phone, city string
}{
	{"John Doe", "john.doe@example.com", "+905551234567", "Istanbul"},
	{"Ayse Yilmaz", "ayse.yilmaz@example.com", "+905329876543", "Izmir"},
	{"Mehmet Kaya", "mehmet.kaya@example.com", "+905423456789", "Ankara"},
	{"Elif Demir", "elif.demir@example.com", "+905057654321", "Antalya"},
}

var sampleDevices = map[string][2]string{
	constants.DeviceInverter:         {"Huawei", "SUN2000-5KTL"},
	constants.DeviceHVBattery:        {"BYD", "Battery-Box Premium HVS"},
	constants.DeviceLVBattery:        {"Pylontech", "US5000"},
	constants.DeviceSolarPanel:       {"Jinko", "Tiger Neo 580W"},
	constants.DeviceChargeController: {"Victron", "SmartSolar MPPT 150/35"},
}

// sampleProgress - статусы, которые получают заявки после "Request Received".
var sampleProgress = []string{
	"Device received at the workshop",
	"Diagnosis in progress",
	"Waiting for spare parts",
	"Repair completed",
}

// SeedQuotes создает count заявок через обычные сервисы и продвигает
// каждую на разное число шагов по sampleProgress.
func SeedQuotes(
	ctx context.Context,
	quoteService services.QuoteServiceInterface,
	trackingService services.TrackingServiceInterface,
	count int,
	logger *zap.Logger,
) ([]string, error) {
	logger.Info("▶️  seeding sample quotes", zap.Int("count", count))

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		customer := sampleCustomers[i%len(sampleCustomers)]
		deviceType := constants.DeviceTypes[i%len(constants.DeviceTypes)]
		device := sampleDevices[deviceType]

		quote, err := quoteService.SubmitQuote(ctx, dto.CreateQuoteDTO{
			FullName:         customer.name,
			Email:            customer.email,
			Phone:            customer.phone,
			City:             customer.city,
			DeviceType:       deviceType,
			Brand:            device[0],
			Model:            device[1],
			IssueDescription: fmt.Sprintf("Sample request #%d: unit stopped working after a storm", i+1),
		})
		if err != nil {
			return codes, fmt.Errorf("seed quote %d: %w", i+1, err)
		}
		codes = append(codes, quote.TrackingCode)

		for _, status := range sampleProgress[:i%(len(sampleProgress)+1)] {
			if _, err := trackingService.UpdateStatus(ctx, dto.AdminStatusUpdateDTO{
				TrackingCode:  quote.TrackingCode,
				StatusMessage: status,
			}); err != nil {
				return codes, fmt.Errorf("seed status for %s: %w", quote.TrackingCode, err)
			}
		}
	}

	logger.Info("✅ sample quotes seeded", zap.Strings("tracking_codes", codes))
	return codes, nil
}
