package routes

import (
	"github.com/labstack/echo/v4"

	"repair-tracker/internal/controllers"
)

func runPublicRouter(
	api *echo.Group,
	quoteCtrl *controllers.QuoteController,
	trackingCtrl *controllers.TrackingController,
	healthCtrl *controllers.HealthController,
	submitMW ...echo.MiddlewareFunc,
) {
	api.POST("/submit_quote", quoteCtrl.SubmitQuote, submitMW...)
	api.GET("/track/:tracking_code", trackingCtrl.Track)
	api.GET("/health", healthCtrl.Health)
}
