package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/cache"
	"github.com/yusufsemlali/ft-transcendence/internal/security"

	"github.com/labstack/echo/v4"
)

const CtxIdentityKey = "identity"

const (
	IdentityBearer = "Bearer"
	IdentityNone   = "None"
)

// リクエストに紐づくID情報。
// 未認証でもguestとして必ず入る（nilチェック不要にするため）。
type Identity struct {
	Type      string `json:"type"`
	UserID    string `json:"id"`
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

func Guest() Identity {
	return Identity{
		Type:     IdentityNone,
		Username: "guest",
		Role:     "guest",
	}
}

// tokenの検証だけを約束（実装はsecurity.TokenIssuer）
type AccessTokenVerifier interface {
	Verify(raw string) (security.AccessClaims, error)
}

// AuthContextは全リクエストにIdentityを付ける。
// ここでは絶対にrejectしない：無効tokenもguest扱いで通し、
// 認証が必要なルートはRequireAuthで弾く（方針はこの1本に統一）。
// tcはnilでもよい（キャッシュ無効）。
func AuthContext(verifier AccessTokenVerifier, tc *cache.TokenCache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get("Authorization"))
			if raw == "" {
				c.Set(CtxIdentityKey, Guest())
				return next(c)
			}

			now := time.Now()

			// キャッシュhitでも権威はない：expだけは必ず見る（Get内で見ている）
			if tc != nil {
				if claims, ok := tc.Get(raw, now); ok {
					c.Set(CtxIdentityKey, identityFromClaims(claims))
					return next(c)
				}
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				// 無効tokenはguest扱い（401にするのは各ルートの宣言）
				c.Set(CtxIdentityKey, Guest())
				return next(c)
			}

			if tc != nil {
				tc.Put(raw, claims)
			}

			c.Set(CtxIdentityKey, identityFromClaims(claims))
			return next(c)
		}
	}
}

// RequireAuthはBearer以外を401で弾く。
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c).Type != IdentityBearer {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHENTICATED"})
			}
			return next(c)
		}
	}
}

// contextからIdentityを取り出す。無ければguest。
func IdentityFrom(c echo.Context) Identity {
	if id, ok := c.Get(CtxIdentityKey).(Identity); ok {
		return id
	}
	return Guest()
}

func identityFromClaims(claims security.AccessClaims) Identity {
	return Identity{
		Type:      IdentityBearer,
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		Username:  claims.Username,
		Role:      claims.Role,
	}
}

// "Bearer xxx" からtokenを抜く
func bearerToken(authz string) string {
	if authz == "" {
		return ""
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
