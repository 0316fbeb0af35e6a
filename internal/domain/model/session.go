package model

import "time"

// Sessionは1ログイン（＝1デバイス）を表す。
type Session struct {
	ID        string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string     `json:"userId" gorm:"type:uuid;not null;index"`
	UserAgent *string    `json:"userAgent"`
	IPAddress *string    `json:"ipAddress"`
	ExpiresAt *time.Time `json:"expiresAt" gorm:"index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Sessionを消すとRefreshTokenも消える
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// 絶対期限を過ぎているか（ExpiresAtがnilなら無期限扱い）
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
