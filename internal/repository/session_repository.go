package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
)

var ErrSessionNotFound = errors.New("session not found")

// セッションの保存・取得・削除。
// 削除はFK cascadeでRefreshTokenも消える。
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// 見つからない場合は (nil, nil)
	FindByID(ctx context.Context, sessionID string) (*model.Session, error)
	// ユーザーの全セッション（アクティブセッション一覧用）
	ListByUserID(ctx context.Context, userID string) ([]model.Session, error)
	// 0件削除はErrSessionNotFound
	DeleteByID(ctx context.Context, sessionID string) error
	// 削除した件数を返す（logout-all用）
	DeleteAllByUserID(ctx context.Context, userID string) (int64, error)
	// 期限切れセッションの掃除（sweeper用）
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
