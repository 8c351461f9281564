package server

import (
	"freshmart/internal/config"
	"freshmart/internal/handler"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// New はmiddleware込みのechoを組み立てる。
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	return e
}

func Start(addr string, cfg config.Config, authH *handler.AuthHandler, productH *handler.ProductHandler, orderH *handler.OrderHandler) error {
	e := New()
	RegisterRoutes(e, cfg, authH, productH, orderH)
	return e.Start(addr)
}
