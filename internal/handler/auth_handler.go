package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/middleware"
	"github.com/yusufsemlali/ft-transcendence/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	refreshCookieName = "refresh_token"
	// /auth配下（refresh/logout）にしか送らせない
	refreshCookiePath = "/auth"
)

type errorResponse struct {
	Error string `json:"error"`
}

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	refreshTTL   time.Duration // refresh cookieの有効期限
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, refreshTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
	}
}

// RegisterはPOST /auth/register のハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR"})
	}

	out, err := h.uc.Register(c.Request().Context(), req, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR"})
		case errors.Is(err, usecase.ErrDuplicateIdentity):
			return c.JSON(http.StatusConflict, errorResponse{Error: "CONFLICT"})
		default:
			return h.internal(c, err)
		}
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)
	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /auth/login のハンドラ
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR"})
	}

	out, err := h.uc.Login(c.Request().Context(), req, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR"})
		case errors.Is(err, usecase.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "UNAUTHORIZED"})
		default:
			return h.internal(c, err)
		}
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)
	return c.JSON(http.StatusOK, out)
}

// RefreshはPOST /auth/refresh のハンドラ。
// secretはhttpOnly cookieで受け取る。失敗時もcookieは必ず消す
// （死んだセッションのcookieをクライアントに残さない）。
func (h *AuthHandler) Refresh(c echo.Context) error {
	ck, err := c.Cookie(refreshCookieName)
	if err != nil || ck.Value == "" {
		h.clearRefreshCookie(c)
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "UNAUTHORIZED"})
	}

	out, err := h.uc.Refresh(c.Request().Context(), ck.Value)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRefreshToken),
			errors.Is(err, usecase.ErrSessionExpired):
			h.clearRefreshCookie(c)
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "UNAUTHORIZED"})
		default:
			return h.internal(c, err)
		}
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)
	return c.JSON(http.StatusOK, out)
}

// LogoutはPOST /auth/logout のハンドラ。
// best-effort：bearerが無くても200でcookieだけ消す。
func (h *AuthHandler) Logout(c echo.Context) error {
	id := middleware.IdentityFrom(c)

	if id.Type == middleware.IdentityBearer {
		if _, err := h.uc.Logout(c.Request().Context(), id.SessionID); err != nil {
			// 失敗してもclientには成功で返す（cookieは消える）
			c.Logger().Errorf("logout failed request_id=%s err=%v", requestID(c), err)
		}
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, usecase.LogoutResult{Success: true})
}

// LogoutAllはPOST /auth/logout-all のハンドラ（要認証）
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	id := middleware.IdentityFrom(c)

	out, err := h.uc.LogoutAll(c.Request().Context(), id.UserID)
	if err != nil {
		return h.internal(c, err)
	}

	// このデバイスのcookieも用済み
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, out)
}

// SessionsはGET /auth/sessions のハンドラ（要認証）
func (h *AuthHandler) Sessions(c echo.Context) error {
	id := middleware.IdentityFrom(c)

	sessions, err := h.uc.Sessions(c.Request().Context(), id.UserID)
	if err != nil {
		return h.internal(c, err)
	}

	return c.JSON(http.StatusOK, map[string][]usecase.SessionDTO{"sessions": sessions})
}

// 想定外エラーは相関IDつきでログして中身は出さない
func (h *AuthHandler) internal(c echo.Context, err error) error {
	c.Logger().Errorf("auth internal error request_id=%s err=%v", requestID(c), err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "INTERNAL"})
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// refresh secretをcookieにセット
func (h *AuthHandler) setRefreshCookie(c echo.Context, plainRefresh string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    plainRefresh,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

// refresh cookieを削除
func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
