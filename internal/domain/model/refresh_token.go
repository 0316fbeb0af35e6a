package model

import "time"

// RefreshTokenはローテーション鎖の1リンク。
// 平文は保存しない（token_hashのみ）。Parentは直前トークンのhash。
type RefreshToken struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID string    `json:"sessionId" gorm:"type:uuid;not null;index"`
	TokenHash string    `json:"-" gorm:"not null;uniqueIndex"`
	Parent    *string   `json:"-"`
	Revoked   bool      `json:"revoked" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
