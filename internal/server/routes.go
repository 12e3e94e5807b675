package server

import (
	"net/http"

	"bookmarket/internal/config"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	// トップはカタログへ
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/books")
	})

	h.Auth.RegisterRoutes(e, cfg)
	h.Book.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Admin.RegisterRoutes(e, cfg)
}
