package repository

import "context"

// トランザクション内で使うrepo一式
type TxRepos interface {
	Users() UserRepository
	Sessions() SessionRepository
	RefreshTokens() RefreshTokenRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがerrorを返したらrollback、nilならcommit。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
