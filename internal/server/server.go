package server

import (
	"bookmarket/internal/config"
	"bookmarket/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	Book  *handler.BookHandler
	Cart  *handler.CartHandler
	Order *handler.OrderHandler
	Admin *handler.AdminHandler
}

// New はechoを組み立てて返す。起動はcmd側。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = newRequestValidator()

	// 表紙画像の配信
	e.Static("/static/uploads", cfg.UploadDir)

	registerRoutes(e, cfg, h)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
