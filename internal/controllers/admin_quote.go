package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/services"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/middleware"
	"repair-tracker/pkg/utils"
)

type AdminQuoteController struct {
	adminService services.AdminQuoteServiceInterface
	logger       *zap.Logger
}

func NewAdminQuoteController(
	adminService services.AdminQuoteServiceInterface,
	logger *zap.Logger,
) *AdminQuoteController {
	return &AdminQuoteController{
		adminService: adminService,
		logger:       logger,
	}
}

func (c *AdminQuoteController) List(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	logger := middleware.LoggerFrom(ctx, c.logger)

	filter, err := c.filterFromQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	res, err := c.adminService.List(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *AdminQuoteController) Stats(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	res, err := c.adminService.Stats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

// Export отдает заявки по тем же фильтрам, что и List, файлом XLSX.
func (c *AdminQuoteController) Export(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	logger := middleware.LoggerFrom(ctx, c.logger)

	filter, err := c.filterFromQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	f, err := c.adminService.Export(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("quotes_%s.xlsx", time.Now().Format(time.DateOnly))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func (c *AdminQuoteController) filterFromQuery(ctx echo.Context) (dto.QuoteFilterDTO, error) {
	filter, err := parseQuoteFilter(ctx.QueryParams())
	if err != nil {
		return filter, err
	}
	if err := ctx.Validate(&filter); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseQuoteFilter читает фильтр из query string. Даты принимаются в RFC3339
// или как YYYY-MM-DD; date_to без времени включает весь день.
func parseQuoteFilter(values url.Values) (dto.QuoteFilterDTO, error) {
	var (
		filter dto.QuoteFilterDTO
		fields []apperrors.FieldError
	)

	if v := strings.TrimSpace(values.Get("device_type")); v != "" {
		filter.DeviceType = null.StringFrom(v)
	}
	if v := strings.TrimSpace(values.Get("city")); v != "" {
		filter.City = null.StringFrom(v)
	}
	if v := strings.TrimSpace(values.Get("status")); v != "" {
		filter.Status = null.StringFrom(v)
	}

	if v := strings.TrimSpace(values.Get("date_from")); v != "" {
		t, _, err := parseDate(v)
		if err != nil {
			fields = append(fields, apperrors.FieldError{Field: "date_from", Message: "must be an RFC3339 timestamp or YYYY-MM-DD date"})
		} else {
			filter.DateFrom = null.TimeFrom(t)
		}
	}
	if v := strings.TrimSpace(values.Get("date_to")); v != "" {
		t, dateOnly, err := parseDate(v)
		if err != nil {
			fields = append(fields, apperrors.FieldError{Field: "date_to", Message: "must be an RFC3339 timestamp or YYYY-MM-DD date"})
		} else {
			if dateOnly {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			filter.DateTo = null.TimeFrom(t)
		}
	}

	for _, p := range []struct {
		name   string
		target *null.Int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	} {
		v := strings.TrimSpace(values.Get(p.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			fields = append(fields, apperrors.FieldError{Field: p.name, Message: "must be an integer"})
			continue
		}
		// null.Int с нулем валидатор считает пустым и пропускает gte=1.
		if p.name == "limit" && n < 1 {
			fields = append(fields, apperrors.FieldError{Field: p.name, Message: "must be at least 1"})
			continue
		}
		*p.target = null.IntFrom(n)
	}

	if len(fields) > 0 {
		return filter, apperrors.NewValidationError(fields[0].Field+": "+fields[0].Message, fields)
	}
	return filter, nil
}

func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
