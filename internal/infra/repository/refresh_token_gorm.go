package repository

import (
	"context"
	"errors"

	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
	domainrepo "github.com/yusufsemlali/ft-transcendence/internal/repository"

	"gorm.io/gorm"
)

type refreshTokenGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewRefreshTokenGormRepository(db *gorm.DB) domainrepo.RefreshTokenRepository {
	return &refreshTokenGormRepository{db: db}
}

// リフレッシュトークンを保存
func (r *refreshTokenGormRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return err
	}
	return nil
}

// token_hashで1件検索（revoked済みも返す。replay検知に使う）
func (r *refreshTokenGormRepository) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var token model.RefreshToken

	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &token, nil
}

// revokedをfalse→trueにする（compare-and-set）。
// 同じsecretで同時にrefreshされても勝者は1人だけ。
func (r *refreshTokenGormRepository) Revoke(ctx context.Context, tokenID int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("id = ? AND revoked = ?", tokenID, false).
		Update("revoked", true)

	if result.Error != nil {
		return result.Error
	}

	// 0件更新は「すでにrevoked/存在しない」＝CAS負け
	if result.RowsAffected == 0 {
		return domainrepo.ErrRefreshTokenNotFound
	}

	return nil
}

// セッションの全トークンを失効
func (r *refreshTokenGormRepository) RevokeAllBySessionID(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("session_id = ? AND revoked = ?", sessionID, false).
		Update("revoked", true)

	if result.Error != nil {
		return result.Error
	}

	return nil
}
