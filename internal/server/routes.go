package server

import (
	"net/http"

	"freshmart/internal/config"
	"freshmart/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, authH *handler.AuthHandler, productH *handler.ProductHandler, orderH *handler.OrderHandler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	authH.RegisterRoutes(e, cfg)
	productH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e)
}
