package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Newはmiddleware込みのechoを作る。
// RequestIDは500応答の相関IDとしてログに出す。
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	return e
}
