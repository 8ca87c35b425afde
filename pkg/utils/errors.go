package utils

import (
	"net/http"

	apperrors "repair-tracker/pkg/errors"
)

type errorMapping struct {
	err     error
	code    int
	message string
}

// ErrorList сопоставляет доменные ошибки с HTTP-ответом.
// Более конкретные ошибки идут раньше общих: ErrQuoteNotFound оборачивает ErrNotFound.
var ErrorList = []errorMapping{
	{apperrors.ErrQuoteNotFound, http.StatusNotFound, "Tracking code not found"},
	{apperrors.ErrNoStatusHistory, http.StatusNotFound, "No status updates found"},
	{apperrors.ErrNotFound, http.StatusNotFound, "Not found"},
	{apperrors.ErrInvalidTrackingCode, http.StatusBadRequest, "Invalid tracking code format"},
	{apperrors.ErrInvalidAPIKey, http.StatusUnauthorized, "Invalid API key"},
	{apperrors.ErrAdminKeyNotConfigured, http.StatusInternalServerError, "Admin API key not configured"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, "Too many requests, please try again later"},
	{apperrors.ErrConflict, http.StatusConflict, "Resource already exists"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, "Bad request"},
}

const internalErrorMessage = "Internal server error"
