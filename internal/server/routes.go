package server

import (
	"github.com/yusufsemlali/ft-transcendence/internal/handler"
	"github.com/yusufsemlali/ft-transcendence/internal/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutesはauthのルートを登録する。
// authCtxは全ルート共通（guestも通す）。認証必須はRequireAuthを重ねる。
func RegisterRoutes(e *echo.Echo, authH *handler.AuthHandler, authCtx echo.MiddlewareFunc) {
	g := e.Group("/auth", authCtx)

	g.POST("/register", authH.Register)
	g.POST("/login", authH.Login)
	g.POST("/refresh", authH.Refresh)
	g.POST("/logout", authH.Logout)
	g.POST("/logout-all", authH.LogoutAll, middleware.RequireAuth())
	g.GET("/sessions", authH.Sessions, middleware.RequireAuth())
}
