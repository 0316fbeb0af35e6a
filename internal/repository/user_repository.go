package repository

import (
	"context"
	"errors"

	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
)

// email/usernameのunique違反
var ErrDuplicateUser = errors.New("duplicate user")

// ユーザーの保存・取得を約束。
// 見つからない場合は (nil, nil) を返す。
type UserRepository interface {
	// 新規ユーザー作成（重複はErrDuplicateUser）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得
	FindByID(ctx context.Context, userID string) (*model.User, error)
	// メールからユーザーを1件取得
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー名からユーザーを1件取得
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
