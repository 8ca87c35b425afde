package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/services"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/middleware"
	"repair-tracker/pkg/utils"
)

type QuoteController struct {
	quoteService services.QuoteServiceInterface
	logger       *zap.Logger
}

func NewQuoteController(
	quoteService services.QuoteServiceInterface,
	logger *zap.Logger,
) *QuoteController {
	return &QuoteController{
		quoteService: quoteService,
		logger:       logger,
	}
}

func (c *QuoteController) SubmitQuote(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	logger := middleware.LoggerFrom(ctx, c.logger)

	var req dto.CreateQuoteDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, invalidBody(err), logger)
	}
	req.Trim()

	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	res, err := c.quoteService.SubmitQuote(reqCtx, req)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

// invalidBody оборачивает ошибку разбора JSON в 400 без деталей парсера.
func invalidBody(err error) error {
	return apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err, nil)
}
