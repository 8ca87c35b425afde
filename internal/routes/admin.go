package routes

import (
	"github.com/labstack/echo/v4"

	"repair-tracker/internal/controllers"
)

// runAdminRouter ожидает группу, уже закрытую middleware.AdminKey.
func runAdminRouter(
	admin *echo.Group,
	trackingCtrl *controllers.TrackingController,
	adminCtrl *controllers.AdminQuoteController,
) {
	admin.POST("/update_status", trackingCtrl.UpdateStatus)
	admin.GET("/quotes", adminCtrl.List)
	admin.GET("/quotes/export", adminCtrl.Export)
	admin.GET("/quotes/:tracking_code/history", trackingCtrl.History)
	admin.GET("/stats", adminCtrl.Stats)
}
