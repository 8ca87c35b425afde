package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/middleware"
	"repair-tracker/pkg/utils"
)

type TrackingController struct {
	trackingService services.TrackingServiceInterface
	logger          *zap.Logger
}

func NewTrackingController(
	trackingService services.TrackingServiceInterface,
	logger *zap.Logger,
) *TrackingController {
	return &TrackingController{
		trackingService: trackingService,
		logger:          logger,
	}
}

func (c *TrackingController) Track(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	logger := middleware.LoggerFrom(ctx, c.logger)

	res, err := c.trackingService.Track(reqCtx, ctx.Param("tracking_code"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

// UpdateStatus добавляет запись в историю. Ключ администратора уже проверен middleware.AdminKey.
func (c *TrackingController) UpdateStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	logger := middleware.LoggerFrom(ctx, c.logger)

	var req dto.AdminStatusUpdateDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, invalidBody(err), logger)
	}
	req.Trim()

	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	res, err := c.trackingService.UpdateStatus(reqCtx, req)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *TrackingController) History(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	logger := middleware.LoggerFrom(ctx, c.logger)

	res, err := c.trackingService.History(reqCtx, ctx.Param("tracking_code"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}
