package repository

import (
	"context"

	domainrepo "github.com/yusufsemlali/ft-transcendence/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users         domainrepo.UserRepository
	sessions      domainrepo.SessionRepository
	refreshTokens domainrepo.RefreshTokenRepository
}

func (r *txReposGorm) Users() domainrepo.UserRepository { return r.users }

func (r *txReposGorm) Sessions() domainrepo.SessionRepository { return r.sessions }

func (r *txReposGorm) RefreshTokens() domainrepo.RefreshTokenRepository { return r.refreshTokens }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// ローテーション（revoke+insert）を1トランザクションで行うための入口。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r domainrepo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:         NewUserGormRepository(tx),
			sessions:      NewSessionGormRepository(tx),
			refreshTokens: NewRefreshTokenGormRepository(tx),
		}
		return fn(r)
	})
}
