package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
	domainrepo "github.com/yusufsemlali/ft-transcendence/internal/repository"

	"gorm.io/gorm"
)

type sessionGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewSessionGormRepository(db *gorm.DB) domainrepo.SessionRepository {
	return &sessionGormRepository{db: db}
}

// セッションを保存
func (r *sessionGormRepository) Create(ctx context.Context, session *model.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return err
	}
	return nil
}

// IDで1件検索
func (r *sessionGormRepository) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	var s model.Session

	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&s).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &s, nil
}

// ユーザーの全セッションを取得（token_hashは持たない投影）
func (r *sessionGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Session, error) {
	var sessions []model.Session

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error

	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// 指定IDのセッションを削除（cascadeでRefreshTokenも消える）
func (r *sessionGormRepository) DeleteByID(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		Delete(&model.Session{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainrepo.ErrSessionNotFound
	}

	return nil
}

// 指定ユーザーのセッションを全削除して件数を返す
func (r *sessionGormRepository) DeleteAllByUserID(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Session{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// 期限切れセッションを掃除
func (r *sessionGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&model.Session{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
