package services

import "repair-tracker/internal/entities"

func quoteEntity(code string) entities.Quote {
	return entities.Quote{
		TrackingCode:     code,
		FullName:         "Jane Roe",
		Email:            "jane@example.com",
		Phone:            "+905550000000",
		City:             "Izmir",
		DeviceType:       "Solar Panel",
		Brand:            "Jinko",
		Model:            "Tiger Neo",
		IssueDescription: "Output dropped by half since last week",
	}
}
