package repository

import (
	"context"
	"errors"

	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// リフレッシュトークンの保存・照合・失効。
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	// revoked済みも含めてhashで1件検索（replay検知のため）。見つからない場合は (nil, nil)
	FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	// revoked=false→trueのcompare-and-set。
	// 0件更新（すでにrevoked/存在しない）はErrRefreshTokenNotFound
	Revoke(ctx context.Context, tokenID int64) error
	// セッションの全トークンを失効
	RevokeAllBySessionID(ctx context.Context, sessionID string) error
}
